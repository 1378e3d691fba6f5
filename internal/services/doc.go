// Package services defines shared utilities consumed by the pipeline stages
// and the backend clients.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and run ledger IDs for logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (configuration vs external service vs cancellation).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across both stages.
package services

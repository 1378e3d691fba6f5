// Package logging assembles structured slog loggers and formatting helpers used
// across bookvoice.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with stage names and run ledger IDs. The package also provides a no-op
// logger for tests and a progress sampler that keeps long runs from flooding
// the console.
package logging

// Package config loads, normalizes, and validates bookvoice configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and OLLAMA_HOST. The Config type centralizes the settings of
// both pipeline stages so the attribution backend, the speech backend, and
// the run ledger are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, and clear validation errors.
package config

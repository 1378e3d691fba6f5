package preflight

import (
	"context"

	"bookvoice/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. The speech
// check is skipped when skipSpeech is set, which lets users verify a
// parse-only setup without an API key.
func RunAll(ctx context.Context, cfg *config.Config, skipSpeech bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckTextBackend(ctx, cfg.Attribution),
	}
	if !skipSpeech {
		results = append(results, CheckSpeechBackend(ctx, cfg.Speech))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

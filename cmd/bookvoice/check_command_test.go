package main

import (
	"errors"
	"testing"

	"bookvoice/internal/services"
	"bookvoice/internal/testsupport"
)

func TestCheckCommandPasses(t *testing.T) {
	text := testsupport.NewTextBackend(t, func(string) string { return "Alice" })
	speech := testsupport.NewSpeechBackend(t)
	env := setupCLITestEnv(t,
		testsupport.WithAttributionURL(text.URL),
		testsupport.WithSpeechURL(speech.URL),
	)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "Text backend:")
	requireContains(t, out, "[OK] API key accepted")
	requireContains(t, out, "All checks passed.")
	if speech.Calls() != 0 {
		t.Fatalf("check must not synthesize audio, got %d calls", speech.Calls())
	}
}

func TestCheckCommandReportsFailures(t *testing.T) {
	text := testsupport.NewTextBackend(t, func(string) string { return "Alice" })
	env := setupCLITestEnv(t,
		testsupport.WithAttributionURL(text.URL),
		testsupport.WithSpeechKey(""),
	)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail without a speech key")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "[ERROR] missing api key")

	out, _, err = runCLI(t, []string{"check", "--skip-speech"}, env.configPath)
	if err != nil {
		t.Fatalf("check --skip-speech: %v\n%s", err, out)
	}
	requireContains(t, out, "[WARN] skipped")
}

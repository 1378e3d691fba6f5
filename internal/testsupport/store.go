package testsupport

import (
	"testing"

	"bookvoice/internal/config"
	"bookvoice/internal/runlog"
)

// MustOpenLedger opens the run ledger for cfg and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *runlog.Store {
	t.Helper()
	store, err := runlog.Open(cfg.LedgerPath())
	if err != nil {
		t.Fatalf("open run ledger: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

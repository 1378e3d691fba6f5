package runlog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bookvoice/internal/runlog"
)

func openStore(t *testing.T) *runlog.Store {
	t.Helper()
	store, err := runlog.Open(filepath.Join(t.TempDir(), "state", "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartAndFinish(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.Start(ctx, runlog.KindParse, "book.txt", "dialogue.json")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if run.ID == "" || run.Status != runlog.StatusRunning {
		t.Fatalf("unexpected run %#v", run)
	}

	counts := runlog.Counts{Total: 4, Succeeded: 3, Failed: 1}
	if err := store.Finish(ctx, run.ID, runlog.StatusCompleted, counts, " done "); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != runlog.StatusCompleted || got.Total != 4 || got.Succeeded != 3 || got.Failed != 1 {
		t.Fatalf("unexpected stored run %#v", got)
	}
	if got.Message != "done" {
		t.Fatalf("expected trimmed message, got %q", got.Message)
	}
	if got.FinishedAt == nil || got.Duration() < 0 {
		t.Fatalf("expected finished timestamp, got %#v", got.FinishedAt)
	}
	if got.Kind != runlog.KindParse || got.Input != "book.txt" || got.Output != "dialogue.json" {
		t.Fatalf("unexpected identity fields %#v", got)
	}
}

func TestFinishRejectsNonTerminalStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	run, err := store.Start(ctx, runlog.KindSynthesize, "d.json", "out")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := store.Finish(ctx, run.ID, runlog.StatusRunning, runlog.Counts{}, ""); err == nil {
		t.Fatal("expected error for non-terminal status")
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openStore(t)
	err := store.Finish(context.Background(), "missing", runlog.StatusFailed, runlog.Counts{}, "")
	if !errors.Is(err, runlog.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, runlog.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from Get, got %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	var ids []string
	for _, input := range []string{"a.txt", "b.txt", "c.txt"} {
		run, err := store.Start(ctx, runlog.KindParse, input, "out.json")
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		ids = append(ids, run.ID)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Fatalf("unexpected order: %#v", all)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(limited))
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := runlog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Start(context.Background(), runlog.KindParse, "x", "y"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	_ = store.Close()

	reopened, err := runlog.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.List(context.Background(), 10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %v %v", runs, err)
	}
}

package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWriteFileExclusive(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "0001_ALICE.mp3")

	if err := WriteFileExclusive(dst, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "audio" {
		t.Fatalf("content mismatch: got %q", got)
	}

	err = WriteFileExclusive(dst, []byte("other"), 0o644)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, _ = os.ReadFile(dst)
	if string(got) != "audio" {
		t.Fatalf("existing file was overwritten: %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be removed, found %d entries", len(entries))
	}
}

func TestWriteFileExclusiveConcurrent(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "race.mp3")
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := WriteFileExclusive(dst, []byte("x"), 0o644); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, ErrExists) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one writer to win, got %d", wins)
	}
}

func TestWriteFileExclusiveMissingDir(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "a.mp3")
	if err := WriteFileExclusive(dst, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if !Exists(dir) {
		t.Fatal("expected temp dir to exist")
	}
	if Exists(filepath.Join(dir, "nope")) {
		t.Fatal("expected missing file to be reported absent")
	}
}

package synthesis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		speaker string
		line    int
		chunk   int
		want    string
	}{
		{"Alice", 7, 0, "0007_Alice.mp3"},
		{"Bob!", 12, 1, "0012_Bob__chunk_01.mp3"},
		{"MARY JANE", 1234, 12, "1234_MARY_JANE_chunk_12.mp3"},
		{"", 3, 0, "0003_.mp3"},
		{"ZOË", 10000, 0, "10000_ZO_.mp3"},
	}
	for _, tt := range tests {
		if got := FileName(tt.speaker, tt.line, tt.chunk); got != tt.want {
			t.Errorf("FileName(%q, %d, %d) = %q, want %q", tt.speaker, tt.line, tt.chunk, got, tt.want)
		}
	}
}

func TestPlannerSave(t *testing.T) {
	p := NewPlanner(filepath.Join(t.TempDir(), "out"))
	if err := p.Prepare(); err != nil {
		t.Fatal(err)
	}
	path := p.Path("ALICE", 1, 0)
	if p.Exists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := p.Save(path, []byte("mp3")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !p.Exists(path) {
		t.Fatal("expected file after save")
	}
	if err := p.Save(path, []byte("other")); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "mp3" {
		t.Fatalf("file overwritten: %q", data)
	}
}

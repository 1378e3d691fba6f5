package synthesis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bookvoice/internal/fileutil"
	"bookvoice/internal/textutil"
)

// FileName derives the audio file name for one chunk of a line.
func FileName(speaker string, lineNumber, chunkIndex int) string {
	safe := textutil.SanitizeSpeaker(speaker)
	if chunkIndex > 0 {
		return fmt.Sprintf("%04d_%s_chunk_%02d.mp3", lineNumber, safe, chunkIndex)
	}
	return fmt.Sprintf("%04d_%s.mp3", lineNumber, safe)
}

// Planner places audio files under an output directory.
type Planner struct {
	dir string
}

// NewPlanner returns a planner rooted at dir.
func NewPlanner(dir string) Planner {
	return Planner{dir: dir}
}

// Dir returns the output directory.
func (p Planner) Dir() string { return p.dir }

// Path returns the full path for a chunk.
func (p Planner) Path(speaker string, lineNumber, chunkIndex int) string {
	return filepath.Join(p.dir, FileName(speaker, lineNumber, chunkIndex))
}

// Exists reports whether the chunk's file is already on disk. Existing files
// are trusted as-is; their content is never re-verified.
func (p Planner) Exists(path string) bool {
	return fileutil.Exists(path)
}

// Save writes audio to path unless something already occupies it, in which
// case it reports ErrAlreadyExists.
func (p Planner) Save(path string, audio []byte) error {
	err := fileutil.WriteFileExclusive(path, audio, 0o644)
	if errors.Is(err, fileutil.ErrExists) {
		return ErrAlreadyExists
	}
	return err
}

// Prepare creates the output directory.
func (p Planner) Prepare() error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// ErrAlreadyExists reports that a concurrent writer created the file first.
var ErrAlreadyExists = errors.New("audio file already exists")

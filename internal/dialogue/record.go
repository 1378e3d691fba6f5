package dialogue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// DialogueLine is one attributed line of dialogue.
type DialogueLine struct {
	LineNumber int     `json:"line_number"`
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Document is the persisted dialogue record.
type Document struct {
	Characters         []string       `json:"characters"`
	TotalDialogueLines int            `json:"total_dialogue_lines"`
	Dialogue           []DialogueLine `json:"dialogue"`
}

// Record holds the attributed lines of one parse run. It is never modified
// after construction.
type Record struct {
	lines      []DialogueLine
	characters []string
}

// NewRecord snapshots lines (sorted by line number) and the character set.
func NewRecord(lines []DialogueLine, chars *CharacterSet) *Record {
	copied := slices.Clone(lines)
	slices.SortStableFunc(copied, func(a, b DialogueLine) int { return a.LineNumber - b.LineNumber })
	var names []string
	if chars != nil {
		names = chars.Sorted()
	}
	return &Record{lines: copied, characters: names}
}

// Lines returns a copy of the attributed lines.
func (r *Record) Lines() []DialogueLine {
	return slices.Clone(r.lines)
}

// Characters returns the sorted character names.
func (r *Record) Characters() []string {
	return slices.Clone(r.characters)
}

// Export produces the persisted form.
func (r *Record) Export() Document {
	chars := r.Characters()
	if chars == nil {
		chars = []string{}
	}
	lines := r.Lines()
	if lines == nil {
		lines = []DialogueLine{}
	}
	return Document{
		Characters:         chars,
		TotalDialogueLines: len(lines),
		Dialogue:           lines,
	}
}

// Save writes doc to path as indented JSON without HTML escaping, creating
// the parent directory when needed.
func Save(path string, doc Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode dialogue record: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dialogue record: %w", err)
	}
	return nil
}

// Load reads a dialogue record written by Save.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read dialogue record: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse dialogue record %s: %w", path, err)
	}
	if doc.TotalDialogueLines == 0 {
		doc.TotalDialogueLines = len(doc.Dialogue)
	}
	return doc, nil
}

package synthesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bookvoice/internal/textutil"
)

const (
	PlaylistFileName = "playlist.m3u"
	SummaryFileName  = "generation_summary.json"

	previewChars = 100
)

// SortRecords orders records by line number, keeping chunk order within a line.
func SortRecords(records []AudioFileRecord) []AudioFileRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b AudioFileRecord) int { return a.LineNumber - b.LineNumber })
	return sorted
}

// RenderPlaylist returns an extended M3U playlist referencing files by basename.
func RenderPlaylist(records []AudioFileRecord) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, r := range SortRecords(records) {
		fmt.Fprintf(&b, "#EXTINF:-1,%s - Line %d\n", r.Speaker, r.LineNumber)
		b.WriteString(filepath.Base(r.FilePath))
		b.WriteByte('\n')
	}
	return b.String()
}

// WritePlaylist writes playlist.m3u into dir and returns its path.
func WritePlaylist(dir string, records []AudioFileRecord) (string, error) {
	path := filepath.Join(dir, PlaylistFileName)
	if err := os.WriteFile(path, []byte(RenderPlaylist(records)), 0o644); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return path, nil
}

// SummaryFile is one entry of the generation summary.
type SummaryFile struct {
	Filename    string `json:"filename"`
	Speaker     string `json:"speaker"`
	LineNumber  int    `json:"line_number"`
	TextPreview string `json:"text_preview"`
}

// Summary is the generation_summary.json document.
type Summary struct {
	TotalFiles      int            `json:"total_files"`
	Speakers        map[string]int `json:"speakers"`
	OutputDirectory string         `json:"output_directory"`
	Files           []SummaryFile  `json:"files"`
}

// BuildSummary counts files per speaker and previews each chunk's text.
func BuildSummary(dir string, records []AudioFileRecord) Summary {
	s := Summary{
		TotalFiles:      len(records),
		Speakers:        make(map[string]int),
		OutputDirectory: dir,
		Files:           make([]SummaryFile, 0, len(records)),
	}
	for _, r := range SortRecords(records) {
		s.Speakers[r.Speaker]++
		s.Files = append(s.Files, SummaryFile{
			Filename:    filepath.Base(r.FilePath),
			Speaker:     r.Speaker,
			LineNumber:  r.LineNumber,
			TextPreview: textutil.Preview(r.Text, previewChars),
		})
	}
	return s
}

// WriteSummary writes generation_summary.json into dir and returns its path.
func WriteSummary(dir string, summary Summary) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	path := filepath.Join(dir, SummaryFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

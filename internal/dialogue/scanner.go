package dialogue

import "strings"

// Candidate is a line that plausibly contains dialogue.
type Candidate struct {
	Text       string
	LineNumber int
}

// dialogueMarkers flag a line as a dialogue candidate: straight and curly
// quotes plus em and en dashes. A line starting with a quote always contains
// one, so no separate prefix check is needed.
const dialogueMarkers = "\"'“”‘’—–"

// SplitLines splits book text on newlines without trimming, so indexes map
// directly to 1-based line numbers (index + 1).
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// ScanCandidates returns every non-empty line containing a dialogue marker,
// trimmed, with its 1-based line number, in document order. Narration with a
// stray apostrophe is included; the attributor labels it NARRATOR.
func ScanCandidates(text string) []Candidate {
	var out []Candidate
	for i, raw := range SplitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, dialogueMarkers) {
			out = append(out, Candidate{Text: line, LineNumber: i + 1})
		}
	}
	return out
}

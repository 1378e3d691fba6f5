package synthesis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"bookvoice/internal/textutil"
)

// DefaultMaxChunkChars is the speech backend's input limit in characters.
const DefaultMaxChunkChars = 4000

// SplitSentences splits text after '.', '!' or '?' when followed by
// whitespace. The whitespace itself is dropped.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
		prev  rune
	)
	for i, r := range text {
		if unicode.IsSpace(r) && isSentenceEnd(prev) {
			if s := strings.TrimSpace(text[start:i]); s != "" {
				out = append(out, s)
			}
			start = i + utf8.RuneLen(r)
		}
		prev = r
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Chunk splits text into pieces of at most maxChars characters without
// breaking sentences. Sentences are packed greedily and joined with a single
// space. A sentence longer than maxChars is returned as its own chunk.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}
	if textutil.RuneLen(text) <= maxChars {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}
	for _, sentence := range SplitSentences(text) {
		n := textutil.RuneLen(sentence)
		if size > 0 && size+1+n > maxChars {
			flush()
		}
		if size > 0 {
			current.WriteByte(' ')
			size++
		}
		current.WriteString(sentence)
		size += n
	}
	flush()
	return chunks
}

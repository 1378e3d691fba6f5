// Package dialogue implements the first pipeline stage: it finds candidate
// dialogue lines in book text, asks a text backend who speaks each one using
// a small window of surrounding narration, and aggregates the results into a
// dialogue record that the synthesis stage consumes.
package dialogue

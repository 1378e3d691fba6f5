// Package textutil holds small Unicode-aware string helpers shared by the
// pipeline stages: filename-safe speaker tokens, whitespace collapsing and
// rune-based previews.
package textutil

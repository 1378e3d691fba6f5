// Package synthesis turns a dialogue record into audio files.
//
// Each line is normalized (outer quotes and dialogue tags removed), matched
// to a voice, split into sentence-preserving chunks and sent to the speech
// backend one chunk at a time. File names are derived from line number,
// speaker and chunk index, so a rerun against the same output directory
// skips every chunk already on disk. After a run the package emits an M3U
// playlist and a JSON generation summary.
package synthesis

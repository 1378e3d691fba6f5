package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"bookvoice/internal/dialogue"
	"bookvoice/internal/runlog"
	"bookvoice/internal/synthesis"
	"bookvoice/internal/testsupport"
)

const sampleBook = "Alice said, \"I'm leaving.\"\nBob frowned. \"Don't go,\" he said."

const sampleVoices = `{
  "character_voices": [
    {"character": "ALICE", "voice": "nova"},
    {"character": "BOB", "voice": "onyx", "speed": 1.1}
  ],
  "default": {"voice": "alloy"}
}`

func sequentialLabels(labels ...string) func(string) string {
	var next atomic.Int32
	return func(string) string {
		i := int(next.Add(1)) - 1
		if i >= len(labels) {
			return "NARRATOR"
		}
		return labels[i]
	}
}

func TestParseAndSynthesizeEndToEnd(t *testing.T) {
	text := testsupport.NewTextBackend(t, sequentialLabels("Alice", "Bob"))
	tts := testsupport.NewSpeechBackend(t)
	env := setupCLITestEnv(t,
		testsupport.WithAttributionURL(text.URL),
		testsupport.WithSpeechURL(tts.URL),
	)

	book := testsupport.WriteText(t, filepath.Join(env.baseDir, "book.txt"), sampleBook)
	dialoguePath := filepath.Join(env.baseDir, "dialogue.json")
	out, _, err := runCLI(t, []string{"parse", book, "-o", dialoguePath}, env.configPath)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	requireContains(t, out, "Found 2 potential dialogue lines")
	requireContains(t, out, "High confidence (>0.7): 2")

	doc, err := dialogue.Load(dialoguePath)
	if err != nil {
		t.Fatalf("load dialogue: %v", err)
	}
	if doc.TotalDialogueLines != 2 || len(doc.Characters) != 2 || doc.Characters[0] != "ALICE" || doc.Characters[1] != "BOB" {
		t.Fatalf("unexpected dialogue record %+v", doc)
	}

	voices := testsupport.WriteText(t, filepath.Join(env.baseDir, "voices.json"), sampleVoices)
	outputDir := filepath.Join(env.baseDir, "audio")
	out, _, err = runCLI(t, []string{"synthesize", dialoguePath, voices, "-o", outputDir}, env.configPath)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	requireContains(t, out, "Total files generated: 2")
	for _, name := range []string{"0001_ALICE.mp3", "0002_BOB.mp3", synthesis.PlaylistFileName, synthesis.SummaryFileName} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if tts.Calls() != 2 {
		t.Fatalf("expected 2 speech calls, got %d", tts.Calls())
	}

	if _, _, err := runCLI(t, []string{"synthesize", dialoguePath, voices, "-o", outputDir}, env.configPath); err != nil {
		t.Fatalf("second synthesize: %v", err)
	}
	if tts.Calls() != 2 {
		t.Fatalf("rerun should not call the backend, got %d calls", tts.Calls())
	}

	out, _, err = runCLI(t, []string{"runs", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []runlog.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, out)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for _, run := range runs {
		if run.Status != runlog.StatusCompleted {
			t.Fatalf("unexpected run status %+v", run)
		}
	}
	if runs[0].Kind != runlog.KindSynthesize || runs[0].Skipped != 2 || runs[0].Succeeded != 0 {
		t.Fatalf("unexpected latest run %+v", runs[0])
	}
	if runs[2].Kind != runlog.KindParse || runs[2].Succeeded != 2 {
		t.Fatalf("unexpected parse run %+v", runs[2])
	}

	out, _, err = runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs table: %v", err)
	}
	requireContains(t, out, "synthesize")
	requireContains(t, out, "completed")
}

func TestParseNoDialogue(t *testing.T) {
	text := testsupport.NewTextBackend(t, func(string) string { return "NARRATOR" })
	env := setupCLITestEnv(t, testsupport.WithAttributionURL(text.URL))
	book := testsupport.WriteText(t, filepath.Join(env.baseDir, "plain.txt"), "No quotes here\nNone at all")
	dialoguePath := filepath.Join(env.baseDir, "dialogue.json")

	out, _, err := runCLI(t, []string{"parse", book, "-o", dialoguePath}, env.configPath)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	requireContains(t, out, "No dialogue found.")
	if _, err := os.Stat(dialoguePath); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, got %v", err)
	}
}

func TestParseMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"parse", filepath.Join(env.baseDir, "missing.txt")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "read input") {
		t.Fatalf("expected read input error, got %v", err)
	}
}

func TestParseRejectsBadWorkers(t *testing.T) {
	env := setupCLITestEnv(t)
	book := testsupport.WriteText(t, filepath.Join(env.baseDir, "book.txt"), sampleBook)
	if _, _, err := runCLI(t, []string{"parse", book, "--workers", "0"}, env.configPath); err == nil {
		t.Fatal("expected error for --workers 0")
	}
}

func TestSynthesizeRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSpeechKey(""))
	dialoguePath := testsupport.WriteText(t, filepath.Join(env.baseDir, "d.json"), `{"characters":[],"total_dialogue_lines":0,"dialogue":[]}`)
	voices := testsupport.WriteText(t, filepath.Join(env.baseDir, "v.json"), sampleVoices)

	_, _, err := runCLI(t, []string{"synthesize", dialoguePath, voices}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "api key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestSynthesizeMalformedVoicesUsesFallback(t *testing.T) {
	tts := testsupport.NewSpeechBackend(t)
	env := setupCLITestEnv(t, testsupport.WithSpeechURL(tts.URL))
	dialoguePath := testsupport.WriteText(t, filepath.Join(env.baseDir, "d.json"),
		`{"characters":["ALICE"],"total_dialogue_lines":1,"dialogue":[{"line_number":3,"speaker":"ALICE","text":"\"Hi.\"","confidence":0.8}]}`)
	voices := testsupport.WriteText(t, filepath.Join(env.baseDir, "v.json"), `{broken`)
	outputDir := filepath.Join(env.baseDir, "audio")

	out, _, err := runCLI(t, []string{"synthesize", dialoguePath, voices, "-k", "sk-flag", "-o", outputDir}, env.configPath)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	requireContains(t, out, "Total files generated: 1")
	if _, err := os.Stat(filepath.Join(outputDir, "0003_ALICE.mp3")); err != nil {
		t.Fatalf("expected audio file: %v", err)
	}
}

func TestSynthesizeBadDialogueFile(t *testing.T) {
	env := setupCLITestEnv(t)
	dialoguePath := testsupport.WriteText(t, filepath.Join(env.baseDir, "d.json"), `not json`)
	voices := testsupport.WriteText(t, filepath.Join(env.baseDir, "v.json"), sampleVoices)
	if _, _, err := runCLI(t, []string{"synthesize", dialoguePath, voices}, env.configPath); err == nil {
		t.Fatal("expected error for malformed dialogue file")
	}
}

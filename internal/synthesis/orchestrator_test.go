package synthesis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"bookvoice/internal/dialogue"
	"bookvoice/internal/services/speech"
)

type stubSynth struct {
	mu       sync.Mutex
	requests []speech.Request
	fail     func(req speech.Request) error
}

func (s *stubSynth) Synthesize(ctx context.Context, req speech.Request) ([]byte, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.fail != nil {
		if err := s.fail(req); err != nil {
			return nil, err
		}
	}
	return []byte("audio:" + req.Voice + ":" + req.Text), nil
}

func (s *stubSynth) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func endToEndLines() []dialogue.DialogueLine {
	return []dialogue.DialogueLine{
		{LineNumber: 1, Speaker: "ALICE", Text: `Alice said, "I'm leaving."`, Confidence: 0.8},
		{LineNumber: 2, Speaker: "BOB", Text: `Bob frowned. "Don't go," he said.`, Confidence: 0.8},
	}
}

func endToEndVoices() VoiceTable {
	return NewVoiceTable(map[string]TTSConfig{
		"ALICE": {Voice: "nova"},
		"BOB":   {Voice: "onyx", Prompt: "gruff"},
	})
}

func recordNames(records []AudioFileRecord) []string {
	var names []string
	for _, r := range records {
		names = append(names, filepath.Base(r.FilePath))
	}
	return names
}

func TestRunEndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audiobook_output")
	synth := &stubSynth{}
	var progress []int
	orch := NewOrchestrator(synth, endToEndVoices(), dir,
		WithRequestInterval(0),
		WithProgress(func(done, total int) { progress = append(progress, done) }),
	)

	res, err := orch.Run(context.Background(), endToEndLines())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := recordNames(res.Records); !slices.Equal(got, []string{"0001_ALICE.mp3", "0002_BOB.mp3"}) {
		t.Fatalf("unexpected files %v", got)
	}
	if res.Synthesized != 2 || res.Skipped != 0 || res.Failed != 0 {
		t.Fatalf("unexpected counts %+v", res)
	}
	if !slices.Equal(progress, []int{1, 2}) {
		t.Fatalf("unexpected progress %v", progress)
	}

	first, second := synth.requests[0], synth.requests[1]
	if first.Voice != "nova" || first.Text != `Alice said, "I'm leaving.` {
		t.Fatalf("unexpected first request %+v", first)
	}
	if second.Voice != "onyx" || second.Prompt != "gruff" || second.Text != `Bob frowned. "Don't go,".` {
		t.Fatalf("unexpected second request %+v", second)
	}
	if strings.Contains(strings.ToLower(second.Text), "he said") {
		t.Fatalf("tag not stripped: %q", second.Text)
	}

	data, err := os.ReadFile(filepath.Join(dir, "0002_BOB.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "audio:onyx:") {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := &stubSynth{}
	res1, err := NewOrchestrator(first, endToEndVoices(), dir, WithRequestInterval(0)).Run(context.Background(), endToEndLines())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := &stubSynth{}
	res2, err := NewOrchestrator(second, endToEndVoices(), dir, WithRequestInterval(0)).Run(context.Background(), endToEndLines())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.calls() != 0 {
		t.Fatalf("expected no backend calls on rerun, got %d", second.calls())
	}
	if !slices.Equal(res1.Records, res2.Records) {
		t.Fatalf("records differ:\n%+v\n%+v", res1.Records, res2.Records)
	}
	if res2.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", res2.Skipped)
	}
}

func TestRunChunksLongLines(t *testing.T) {
	dir := t.TempDir()
	synth := &stubSynth{}
	lines := []dialogue.DialogueLine{{LineNumber: 12, Speaker: "Bob!", Text: `"First sentence here. Second sentence here."`}}
	res, err := NewOrchestrator(synth, VoiceTable{}, dir, WithRequestInterval(0), WithMaxChunkChars(25)).Run(context.Background(), lines)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := recordNames(res.Records); !slices.Equal(got, []string{"0012_Bob_.mp3", "0012_Bob__chunk_01.mp3"}) {
		t.Fatalf("unexpected files %v", got)
	}
	for _, req := range synth.requests {
		if req.Voice != "alloy" || req.Speed != 1.0 {
			t.Fatalf("expected fallback voice, got %+v", req)
		}
	}
}

func TestRunSkipsEmptyAndFailedChunks(t *testing.T) {
	dir := t.TempDir()
	synth := &stubSynth{fail: func(req speech.Request) error {
		if strings.Contains(req.Text, "boom") {
			return errors.New("status 500")
		}
		return nil
	}}
	lines := []dialogue.DialogueLine{
		{LineNumber: 1, Speaker: "A", Text: `"he said"`},
		{LineNumber: 2, Speaker: "A", Text: `"boom"`},
		{LineNumber: 3, Speaker: "B", Text: `"fine"`},
	}
	res, err := NewOrchestrator(synth, VoiceTable{}, dir, WithRequestInterval(0)).Run(context.Background(), lines)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.EmptyLines != 1 || res.Failed != 1 || res.Synthesized != 1 {
		t.Fatalf("unexpected counts %+v", res)
	}
	if got := recordNames(res.Records); !slices.Equal(got, []string{"0003_B.mp3"}) {
		t.Fatalf("unexpected files %v", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "0002_A.mp3")); !os.IsNotExist(err) {
		t.Fatalf("failed chunk should not leave a file: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	synth := &stubSynth{fail: func(speech.Request) error {
		cancel()
		return context.Canceled
	}}
	res, err := NewOrchestrator(synth, VoiceTable{}, t.TempDir(), WithRequestInterval(0)).Run(ctx, endToEndLines())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || len(res.Records) != 0 || synth.calls() != 1 {
		t.Fatalf("unexpected partial result %+v after %d calls", res, synth.calls())
	}
}

func TestRunRefusesLockedOutput(t *testing.T) {
	dir := t.TempDir()
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock: %v", err)
	}
	defer lock.Unlock()

	_, err = NewOrchestrator(&stubSynth{}, VoiceTable{}, dir).Run(context.Background(), endToEndLines())
	if !errors.Is(err, ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}
}

package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// NewTextBackend starts an Ollama-style /api/generate server whose reply is
// computed from the prompt. /api/tags answers health checks.
func NewTextBackend(t testing.TB, respond func(prompt string) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"response": respond(req.Prompt), "done": true})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// SpeechBackend is a fake /audio/speech endpoint that counts requests.
// GET /models always succeeds.
type SpeechBackend struct {
	*httptest.Server
	calls atomic.Int32
}

// Calls returns the number of synthesis requests served.
func (b *SpeechBackend) Calls() int { return int(b.calls.Load()) }

// NewSpeechBackend starts a fake speech server returning fixed audio bytes.
func NewSpeechBackend(t testing.TB) *SpeechBackend {
	t.Helper()
	b := &SpeechBackend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != "/audio/speech" {
			http.NotFound(w, r)
			return
		}
		b.calls.Add(1)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3fake-mp3"))
	}))
	t.Cleanup(b.Server.Close)
	return b
}

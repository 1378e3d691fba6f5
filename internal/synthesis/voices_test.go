package synthesis

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolvePrecedence(t *testing.T) {
	table := NewVoiceTable(map[string]TTSConfig{
		"ALICE":   {Voice: "nova", Prompt: "warm", Speed: 1.1},
		"DEFAULT": {Voice: "echo"},
	})
	if got := table.Resolve("alice"); got.Voice != "nova" || got.Speed != 1.1 {
		t.Fatalf("exact match lost: %+v", got)
	}
	if got := table.Resolve("BOB"); got.Voice != "echo" || got.Speed != 1.0 {
		t.Fatalf("expected DEFAULT with speed 1.0, got %+v", got)
	}
	if got := (VoiceTable{}).Resolve("ALICE"); got != FallbackVoice {
		t.Fatalf("empty table should resolve to fallback, got %+v", got)
	}
	if got := NewVoiceTable(map[string]TTSConfig{"ALICE": {Voice: "nova"}}).Resolve("BOB"); got != FallbackVoice {
		t.Fatalf("missing DEFAULT should resolve to fallback, got %+v", got)
	}
}

func TestLoadVoicesJSON(t *testing.T) {
	path := writeFile(t, "voices.json", `{
  "character_voices": [
    {"character": "Alice", "voice": "nova", "prompt": "bright", "speed": 1.2},
    {"character": "BOB", "voice": "onyx", "speed": 0}
  ],
  "default": {"voice": "fable"}
}`)
	table, err := LoadVoices(path)
	if err != nil {
		t.Fatalf("LoadVoices: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", table.Len())
	}
	if got := table.Resolve("ALICE"); got != (TTSConfig{Voice: "nova", Prompt: "bright", Speed: 1.2}) {
		t.Fatalf("unexpected ALICE voice %+v", got)
	}
	if got := table.Resolve("bob"); got.Speed != 1.0 {
		t.Fatalf("non-positive speed should become 1.0, got %+v", got)
	}
	if got := table.Resolve("NARRATOR"); got.Voice != "fable" {
		t.Fatalf("expected default voice, got %+v", got)
	}
}

func TestLoadVoicesYAML(t *testing.T) {
	path := writeFile(t, "voices.yaml", `
character_voices:
  - character: Alice
    voice: nova
    speed: 0.9
default:
  voice: echo
  prompt: calm narrator
`)
	table, err := LoadVoices(path)
	if err != nil {
		t.Fatalf("LoadVoices: %v", err)
	}
	if got := table.Resolve("ALICE"); got.Voice != "nova" || got.Speed != 0.9 {
		t.Fatalf("unexpected ALICE voice %+v", got)
	}
	if got := table.Resolve("someone"); got.Voice != "echo" || got.Prompt != "calm narrator" {
		t.Fatalf("unexpected default %+v", got)
	}
}

func TestLoadVoicesErrors(t *testing.T) {
	tests := map[string]string{
		"bad.json":      `{not json`,
		"nochar.json":   `{"character_voices":[{"voice":"nova"}]}`,
		"novoice.json":  `{"character_voices":[{"character":"A"}]}`,
		"nodefault.yml": "default:\n  prompt: x\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadVoices(writeFile(t, name, content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := LoadVoices(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

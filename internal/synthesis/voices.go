package synthesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// DefaultVoiceKey names the fallback entry of a voice table.
const DefaultVoiceKey = "DEFAULT"

// FallbackVoice is used when neither the speaker nor DEFAULT is configured.
var FallbackVoice = TTSConfig{Voice: "alloy", Prompt: "", Speed: 1.0}

// TTSConfig is the voice used for one speaker.
type TTSConfig struct {
	Voice  string  `json:"voice" yaml:"voice"`
	Prompt string  `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Speed  float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
}

type characterVoice struct {
	Character string `json:"character" yaml:"character"`
	TTSConfig `yaml:",inline"`
}

type voiceFile struct {
	CharacterVoices []characterVoice `json:"character_voices" yaml:"character_voices"`
	Default         *TTSConfig       `json:"default" yaml:"default"`
}

// VoiceTable maps speaker labels to voices. The zero value is an empty table.
type VoiceTable struct {
	voices map[string]TTSConfig
}

// NewVoiceTable builds a table from speaker → config pairs. Keys match
// case-insensitively; use DefaultVoiceKey for the default entry.
func NewVoiceTable(entries map[string]TTSConfig) VoiceTable {
	t := VoiceTable{voices: make(map[string]TTSConfig, len(entries))}
	for speaker, cfg := range entries {
		t.voices[foldKey(speaker)] = withDefaults(cfg)
	}
	return t
}

// Len returns the number of configured entries, DEFAULT included.
func (t VoiceTable) Len() int { return len(t.voices) }

// Resolve returns the speaker's voice, else DEFAULT, else FallbackVoice.
func (t VoiceTable) Resolve(speaker string) TTSConfig {
	if cfg, ok := t.voices[foldKey(speaker)]; ok {
		return cfg
	}
	if cfg, ok := t.voices[foldKey(DefaultVoiceKey)]; ok {
		return cfg
	}
	return FallbackVoice
}

// LoadVoices reads a voice file. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func LoadVoices(path string) (VoiceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VoiceTable{}, fmt.Errorf("read voice config: %w", err)
	}
	var file voiceFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return VoiceTable{}, fmt.Errorf("parse voice config %s: %w", path, err)
	}

	entries := make(map[string]TTSConfig, len(file.CharacterVoices)+1)
	for i, cv := range file.CharacterVoices {
		if strings.TrimSpace(cv.Character) == "" {
			return VoiceTable{}, fmt.Errorf("voice config %s: character_voices[%d]: missing character", path, i)
		}
		if strings.TrimSpace(cv.Voice) == "" {
			return VoiceTable{}, fmt.Errorf("voice config %s: character %q: missing voice", path, cv.Character)
		}
		entries[cv.Character] = cv.TTSConfig
	}
	if file.Default != nil {
		if strings.TrimSpace(file.Default.Voice) == "" {
			return VoiceTable{}, fmt.Errorf("voice config %s: default: missing voice", path)
		}
		entries[DefaultVoiceKey] = *file.Default
	}
	return NewVoiceTable(entries), nil
}

func withDefaults(cfg TTSConfig) TTSConfig {
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}
	return cfg
}

func foldKey(speaker string) string {
	return cases.Fold().String(strings.TrimSpace(speaker))
}

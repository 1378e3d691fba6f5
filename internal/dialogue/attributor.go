package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bookvoice/internal/logging"
)

const (
	// ConfidenceNamed is assigned when the backend names a character.
	ConfidenceNamed = 0.8
	// ConfidenceSentinel is assigned to NARRATOR, UNKNOWN and empty labels.
	// Both values are coarse heuristics, not calibrated probabilities.
	ConfidenceSentinel = 0.3

	defaultAttributionTimeout = 30 * time.Second
)

// Generator is the text backend used for attribution.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Outcome classifies an attribution result.
type Outcome string

const (
	OutcomeLabeled      Outcome = "labeled"
	OutcomeSentinel     Outcome = "sentinel"
	OutcomeEmpty        Outcome = "empty"
	OutcomeBackendError Outcome = "backend_error"
)

// Attribution is the typed result of attributing one line.
type Attribution struct {
	Speaker    string
	Confidence float64
	Outcome    Outcome
	Err        error
}

// Attributor asks the text backend who speaks a line of dialogue.
type Attributor struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

// AttributorOption customizes an Attributor.
type AttributorOption func(*Attributor)

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) AttributorOption {
	return func(a *Attributor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) AttributorOption {
	return func(a *Attributor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAttributor constructs an Attributor backed by gen.
func NewAttributor(gen Generator, opts ...AttributorOption) *Attributor {
	a := &Attributor{
		gen:     gen,
		timeout: defaultAttributionTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attribute labels the target line of w and adds genuine names to chars.
// Backend failures never escape as errors; they surface as OutcomeBackendError
// with an empty speaker.
func (a *Attributor) Attribute(ctx context.Context, w Window, chars *CharacterSet) Attribution {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := a.gen.Generate(callCtx, BuildPrompt(w))
	if err != nil {
		return Attribution{
			Confidence: ConfidenceSentinel,
			Outcome:    OutcomeBackendError,
			Err:        err,
		}
	}

	speaker := NormalizeLabel(response)
	result := Attribution{Speaker: speaker, Confidence: Confidence(speaker)}
	switch {
	case speaker == "":
		result.Outcome = OutcomeEmpty
	case IsSentinel(speaker):
		result.Outcome = OutcomeSentinel
	default:
		result.Outcome = OutcomeLabeled
		if chars != nil && chars.Add(speaker) {
			a.logger.Debug("new character", logging.String(logging.FieldSpeaker, speaker))
		}
	}
	return result
}

// NormalizeLabel trims the backend response and uppercases it with Unicode
// case mapping.
func NormalizeLabel(response string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(response))
}

// Confidence returns ConfidenceNamed for genuine names and ConfidenceSentinel
// otherwise.
func Confidence(label string) float64 {
	if IsSentinel(label) {
		return ConfidenceSentinel
	}
	return ConfidenceNamed
}

// BuildPrompt renders the attribution instructions around the window text.
func BuildPrompt(w Window) string {
	return fmt.Sprintf(`
Analyze this text excerpt and identify who is speaking the dialogue in quotes.

Text:
%s

Instructions:
- Look for the dialogue in quotation marks
- Identify the speaker based on context clues (dialogue tags, narrative descriptions)
- If no clear speaker is identified, respond with "%s" for narrative text or "%s" for unclear dialogue
- Respond with ONLY the character name or %s/%s
- Use consistent character names (e.g., always "John" not "John Smith" then "John")

Speaker:`, w.Text(), SpeakerNarrator, SpeakerUnknown, SpeakerNarrator, SpeakerUnknown)
}

package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/time/rate"

	"bookvoice/internal/dialogue"
	"bookvoice/internal/logging"
	"bookvoice/internal/services/speech"
)

const (
	// DefaultRequestInterval spaces consecutive speech requests.
	DefaultRequestInterval = 100 * time.Millisecond

	lockFileName = ".bookvoice.lock"
)

// ErrOutputLocked is returned when another run holds the output directory.
var ErrOutputLocked = errors.New("output directory is in use by another synthesis run")

// Synthesizer is the speech backend.
type Synthesizer interface {
	Synthesize(ctx context.Context, req speech.Request) ([]byte, error)
}

// AudioFileRecord describes one chunk's audio file, newly written or found on disk.
type AudioFileRecord struct {
	FilePath   string
	Speaker    string
	LineNumber int
	Text       string
	// Duration is never measured; it stays nil.
	Duration *float64
}

// Result is the outcome of a synthesis run.
type Result struct {
	Records     []AudioFileRecord
	Synthesized int
	Skipped     int
	Failed      int
	EmptyLines  int
}

// Orchestrator drives stage two over a dialogue record.
type Orchestrator struct {
	synth      Synthesizer
	voices     VoiceTable
	planner    Planner
	normalizer *Normalizer
	maxChars   int
	interval   time.Duration
	logger     *slog.Logger
	progress   dialogue.ProgressFunc
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithMaxChunkChars sets the chunk size limit.
func WithMaxChunkChars(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxChars = n
		}
	}
}

// WithRequestInterval sets the minimum spacing between speech requests. Zero
// disables rate limiting.
func WithRequestInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.interval = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress registers a per-line progress callback.
func WithProgress(fn dialogue.ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithNormalizer overrides the tag-stripping rules.
func WithNormalizer(n *Normalizer) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// NewOrchestrator wires the speech backend, voice table and output directory.
func NewOrchestrator(synth Synthesizer, voices VoiceTable, outputDir string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		synth:      synth,
		voices:     voices,
		planner:    NewPlanner(outputDir),
		normalizer: NewNormalizer(nil),
		maxChars:   DefaultMaxChunkChars,
		interval:   DefaultRequestInterval,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run synthesizes every line. Backend and save failures skip the chunk; on
// cancellation the records gathered so far are returned with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, lines []dialogue.DialogueLine) (*Result, error) {
	if err := o.planner.Prepare(); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(o.planner.Dir(), lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", o.planner.Dir(), ErrOutputLocked)
	}
	defer func() { _ = lock.Unlock() }()

	limit := rate.Inf
	if o.interval > 0 {
		limit = rate.Every(o.interval)
	}
	limiter := rate.NewLimiter(limit, 1)
	logger := logging.WithContext(ctx, o.logger)
	sampler := logging.NewProgressSampler(10)
	result := &Result{}

	for i, line := range lines {
		text := o.normalizer.Normalize(line.Text)
		if text == "" {
			result.EmptyLines++
			o.report(logger, sampler, i+1, len(lines))
			continue
		}
		voice := o.voices.Resolve(line.Speaker)
		for idx, chunk := range Chunk(text, o.maxChars) {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if err := o.processChunk(ctx, logger, limiter, result, line, voice, idx, chunk); err != nil {
				return result, err
			}
		}
		o.report(logger, sampler, i+1, len(lines))
	}
	return result, nil
}

func (o *Orchestrator) processChunk(ctx context.Context, logger *slog.Logger, limiter *rate.Limiter, result *Result,
	line dialogue.DialogueLine, voice TTSConfig, idx int, chunk string) error {
	path := o.planner.Path(line.Speaker, line.LineNumber, idx)
	record := AudioFileRecord{FilePath: path, Speaker: line.Speaker, LineNumber: line.LineNumber, Text: chunk}
	chunkLogger := logger.With(
		logging.Int(logging.FieldLineNumber, line.LineNumber),
		logging.String(logging.FieldSpeaker, line.Speaker),
		logging.Int(logging.FieldChunkIndex, idx),
	)

	if o.planner.Exists(path) {
		chunkLogger.Debug("audio already present", logging.String("path", path))
		result.Records = append(result.Records, record)
		result.Skipped++
		return nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	audio, err := o.synth.Synthesize(ctx, speech.Request{
		Text:   chunk,
		Voice:  voice.Voice,
		Speed:  voice.Speed,
		Prompt: voice.Prompt,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logging.WarnWithContext(chunkLogger, "speech synthesis failed", "synthesis_backend_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the API key and speech service status"),
			logging.String(logging.FieldImpact, "chunk skipped; rerun to fill the gap"),
		)
		result.Failed++
		return nil
	}

	switch err := o.planner.Save(path, audio); {
	case errors.Is(err, ErrAlreadyExists):
		chunkLogger.Info("audio written concurrently, keeping existing file", logging.String("path", path))
		result.Skipped++
	case err != nil:
		logging.WarnWithContext(chunkLogger, "save audio failed", "synthesis_save_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the output directory"),
			logging.String(logging.FieldImpact, "chunk skipped; rerun to fill the gap"),
		)
		result.Failed++
		return nil
	default:
		chunkLogger.Debug("audio written", logging.String("path", path), logging.Int("bytes", len(audio)))
		result.Synthesized++
	}
	result.Records = append(result.Records, record)
	return nil
}

func (o *Orchestrator) report(logger *slog.Logger, sampler *logging.ProgressSampler, done, total int) {
	if o.progress != nil {
		o.progress(done, total)
	}
	if sampler.ShouldLog(done, total) {
		logger.Info("synthesis progress", logging.Int("done", done), logging.Int("total", total))
	}
}

package dialogue

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"bookvoice/internal/logging"
)

// ProgressFunc receives the number of finished units out of total.
type ProgressFunc func(done, total int)

// Parser runs stage one: scan, window, attribute.
type Parser struct {
	attributor *Attributor
	workers    int
	logger     *slog.Logger
	progress   ProgressFunc
}

// ParserOption customizes a Parser.
type ParserOption func(*Parser)

// WithWorkers sets how many lines are attributed concurrently.
func WithWorkers(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithParserLogger attaches a logger.
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProgress registers a progress callback. It is invoked from worker
// goroutines, one call at a time.
func WithProgress(fn ProgressFunc) ParserOption {
	return func(p *Parser) { p.progress = fn }
}

// NewParser constructs a Parser.
func NewParser(attributor *Attributor, opts ...ParserOption) *Parser {
	p := &Parser{attributor: attributor, workers: 1, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of a parse run.
type Result struct {
	Record   *Record
	Outcomes map[Outcome]int
}

// Parse attributes every dialogue candidate in text. Per-line backend
// failures are recorded, not returned; only context cancellation aborts.
func (p *Parser) Parse(ctx context.Context, text string) (*Result, error) {
	lines := SplitLines(text)
	candidates := ScanCandidates(text)
	chars := NewCharacterSet()
	attributions := make([]Attribution, len(candidates))
	logger := logging.WithContext(ctx, p.logger)

	logger.Info("dialogue candidates found", logging.Int("candidates", len(candidates)))

	var (
		mu      sync.Mutex
		done    int
		sampler = logging.NewProgressSampler(10)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			window := BuildWindow(lines, c.LineNumber, c.Text)
			result := p.attributor.Attribute(gctx, window, chars)
			if result.Outcome == OutcomeBackendError {
				if err := gctx.Err(); err != nil {
					return err
				}
				logging.WarnWithContext(logger, "attribution backend failed",
					"attribution_backend_error",
					logging.Int(logging.FieldLineNumber, c.LineNumber),
					logging.Error(result.Err),
					logging.String(logging.FieldErrorHint, "check that the text backend is reachable and the model is pulled"),
					logging.String(logging.FieldImpact, "line recorded with an empty speaker"),
				)
			}
			attributions[i] = result

			mu.Lock()
			defer mu.Unlock()
			done++
			if p.progress != nil {
				p.progress(done, len(candidates))
			}
			if sampler.ShouldLog(done, len(candidates)) {
				logger.Info("attribution progress",
					logging.Int("done", done),
					logging.Int("total", len(candidates)),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]DialogueLine, len(candidates))
	outcomes := make(map[Outcome]int)
	for i, c := range candidates {
		a := attributions[i]
		out[i] = DialogueLine{
			LineNumber: c.LineNumber,
			Speaker:    a.Speaker,
			Text:       c.Text,
			Confidence: a.Confidence,
		}
		outcomes[a.Outcome]++
	}
	return &Result{Record: NewRecord(out, chars), Outcomes: outcomes}, nil
}

package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressReporter renders a bar on interactive terminals and stays silent
// otherwise; structured progress logs cover the non-interactive case.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, description string) *progressReporter {
	if !isTerminal(out) {
		return &progressReporter{}
	}
	return &progressReporter{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

// update is safe to pass as a progress callback; callers serialize it.
func (p *progressReporter) update(done, total int) {
	if p.bar == nil {
		return
	}
	if p.bar.GetMax() != total {
		p.bar.ChangeMax(total)
	}
	_ = p.bar.Set(done)
}

func (p *progressReporter) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

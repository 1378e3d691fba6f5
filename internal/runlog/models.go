package runlog

import "time"

// Kind identifies which pipeline stage a run executed.
type Kind string

const (
	KindParse      Kind = "parse"
	KindSynthesize Kind = "synthesize"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether the run has finished.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Run is one ledger entry.
type Run struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	Input      string     `json:"input"`
	Output     string     `json:"output"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Message    string     `json:"message,omitempty"`
}

// Duration returns the elapsed time of a finished run, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts are the per-unit tallies recorded when a run finishes.
type Counts struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

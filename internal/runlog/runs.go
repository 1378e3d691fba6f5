package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, kind, input, output, status, started_at, finished_at, total, succeeded, skipped, failed, message"

// Start records a new running entry and returns it.
func (s *Store) Start(ctx context.Context, kind Kind, input, output string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Input:     input,
		Output:    output,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, kind, input, output, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), run.Input, run.Output, string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish moves a run to a terminal status and stores its counts.
func (s *Store) Finish(ctx context.Context, id string, status Status, counts Counts, message string) error {
	if !status.IsTerminal() {
		return fmt.Errorf("finish run %s: status %q is not terminal", id, status)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, total = ?, succeeded = ?, skipped = ?, failed = ?, message = ?
		 WHERE id = ?`,
		string(status), formatTime(time.Now().UTC()),
		counts.Total, counts.Succeeded, counts.Skipped, counts.Failed,
		strings.TrimSpace(message), id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// Get fetches a single run.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	return run, err
}

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run          Run
		kind, status string
		started      string
		finished     sql.NullString
	)
	if err := row.Scan(&run.ID, &kind, &run.Input, &run.Output, &status, &started, &finished,
		&run.Total, &run.Succeeded, &run.Skipped, &run.Failed, &run.Message); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = Kind(kind)
	run.Status = Status(status)
	run.StartedAt = parseTime(started)
	if finished.Valid && finished.String != "" {
		t := parseTime(finished.String)
		run.FinishedAt = &t
	}
	return run, nil
}

// timeLayout has fixed-width fractional seconds so stored values sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

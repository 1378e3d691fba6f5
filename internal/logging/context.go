package logging

import (
	"context"
	"log/slog"

	"bookvoice/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldRunID is the standardized structured logging key for run ledger identifiers.
	FieldRunID = "run_id"
	// FieldLineNumber is the 1-based source line a log entry refers to.
	FieldLineNumber = "line_number"
	// FieldSpeaker is the attributed speaker label.
	FieldSpeaker = "speaker"
	// FieldChunkIndex is the 0-based synthesis chunk index within a line.
	FieldChunkIndex = "chunk_index"
	// FieldEventType tags log entries with a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint carries the operator-facing next step for warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

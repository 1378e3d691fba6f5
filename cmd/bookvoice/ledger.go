package main

import (
	"context"
	"log/slog"

	"bookvoice/internal/logging"
	"bookvoice/internal/runlog"
	"bookvoice/internal/services"
)

// stageOutcome is what a pipeline command reports back to the ledger.
type stageOutcome struct {
	counts  runlog.Counts
	message string
}

// recordRun wraps fn in a ledger entry. fn receives a context carrying the
// stage name and run id. The entry is finished even when fn fails.
func recordRun(ctx context.Context, store *runlog.Store, logger *slog.Logger, kind runlog.Kind, input, output string,
	fn func(ctx context.Context) (stageOutcome, error)) error {
	run, err := store.Start(ctx, kind, input, output)
	if err != nil {
		return services.Wrap(services.ErrTransient, string(kind), "start run", "", err)
	}
	runCtx := services.WithRunID(services.WithStage(ctx, string(kind)), run.ID)

	outcome, runErr := fn(runCtx)
	status := runlog.StatusCompleted
	message := outcome.message
	if runErr != nil {
		status = services.FailureStatus(runErr)
		message = runErr.Error()
		if status == runlog.StatusFailed {
			logging.ErrorWithContext(logging.WithContext(runCtx, logger), "stage failed", "stage_failed",
				logging.Error(runErr),
				logging.String(logging.FieldImpact, "run recorded as failed; rerun skips completed work"),
			)
		}
	}
	// The run context may already be cancelled; the ledger write must still land.
	if err := store.Finish(context.WithoutCancel(ctx), run.ID, status, outcome.counts, message); err != nil {
		logging.WarnWithContext(logging.WithContext(runCtx, logger), "finish run ledger entry failed", "ledger_finish_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history shows this run as still running"),
		)
	}
	return runErr
}

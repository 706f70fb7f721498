package audit

import (
	"context"
	"log/slog"
)

// Worker drains the recorder inbox and persists entries. Persistence
// failures are logged and the worker keeps draining; the case record, not
// the trail, is the durable truth.
type Worker struct {
	store  Store
	inbox  <-chan Entry
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Entry, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-w.inbox:
			if err := w.store.Append(ctx, entry); err != nil {
				w.logger.ErrorContext(ctx, "audit trail append failed",
					"case_id", entry.CaseID.String(),
					"action", string(entry.Action),
					"error", err,
				)
			}
		}
	}
}

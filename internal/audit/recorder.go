package audit

import (
	"context"
	"log/slog"
	"time"
)

// Recorder accepts trail entries without blocking the decision path. Entries
// go through a buffered inbox drained by the Worker; a full inbox drops the
// entry and logs, it never stalls a transition.
type Recorder struct {
	inbox  chan Entry
	logger *slog.Logger
}

// NewRecorder creates a Recorder with the given inbox capacity.
func NewRecorder(capacity int, logger *slog.Logger) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		inbox:  make(chan Entry, capacity),
		logger: logger,
	}
}

// Record enqueues a trail entry. Stamps the timestamp when the caller left
// it zero.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	select {
	case r.inbox <- entry:
	default:
		r.logger.WarnContext(ctx, "audit trail inbox full, entry dropped",
			"case_id", entry.CaseID.String(),
			"action", string(entry.Action),
		)
	}
}

// Inbox exposes the receive side for the Worker.
func (r *Recorder) Inbox() <-chan Entry {
	return r.inbox
}

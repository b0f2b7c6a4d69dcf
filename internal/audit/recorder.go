package audit

import (
	"context"
	"log/slog"
)

// Recorder is what services call on every mutation. It hands events to the
// worker through a bounded channel; when the channel is full the event is
// dropped with a warning rather than stalling the request.
type Recorder struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewRecorder builds a Recorder with the given queue depth.
func NewRecorder(depth int, logger *slog.Logger) *Recorder {
	return &Recorder{inbox: make(chan Event, depth), logger: logger}
}

// Record stamps and enqueues an event.
func (r *Recorder) Record(ctx context.Context, action, subject, detail string) {
	e := NewEvent(ctx, action, subject, detail)
	select {
	case r.inbox <- e:
	default:
		r.logger.WarnContext(ctx, "audit queue full, dropping event",
			"action", action,
			"subject", subject,
		)
	}
}

// Inbox exposes the queue for the worker.
func (r *Recorder) Inbox() <-chan Event {
	return r.inbox
}

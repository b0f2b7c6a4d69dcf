// Package audit captures an append-only trail of mutating operations.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aoiconsole/pkg/requestcontext"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Occurred  time.Time `json:"occurred"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail"`
	RequestID string    `json:"requestId"`
	ClientIP  string    `json:"clientIp"`
	Browser   string    `json:"browser"`
}

// NewEvent stamps an event with everything the request context knows:
// actor, request ID, and client transport metadata.
func NewEvent(ctx context.Context, action, subject, detail string) Event {
	e := Event{
		ID:        uuid.New(),
		Occurred:  requestcontext.Now(ctx),
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	}
	if user, ok := requestcontext.User(ctx); ok {
		e.Actor = user.Email
	}
	meta := requestcontext.ClientMeta(ctx)
	e.ClientIP = meta.IP
	e.Browser = meta.Browser
	return e
}

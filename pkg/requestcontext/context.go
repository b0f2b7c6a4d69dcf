// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http lets services and workers import it without pulling transport
// code along.
//
// Usage in services (read values):
//
//	user, ok := requestcontext.User(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithUser(ctx, sessionUser)
package requestcontext

import (
	"context"
	"time"
)

// SessionUser is the identity the auth middleware extracts from a session
// token. A zero value means "no current user": the request proceeds
// anonymously and organization-scoped data stays hidden.
type SessionUser struct {
	ID             int64
	Email          string
	Role           string
	Subdirectorate string
	Division       string
}

// Context key types (unexported for encapsulation).
type (
	userKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientMetaKey  struct{}
)

// ClientMetadata captures transport facts recorded into audit events.
type ClientMetadata struct {
	IP        string
	UserAgent string
	Browser   string
}

// User retrieves the authenticated session user from the context. The second
// return is false for anonymous requests.
func User(ctx context.Context) (SessionUser, bool) {
	u, ok := ctx.Value(userKey{}).(SessionUser)
	return u, ok
}

// WithUser injects a session user into the context.
func WithUser(ctx context.Context, user SessionUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that do not run the full middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// ClientMeta retrieves client transport metadata from the context.
func ClientMeta(ctx context.Context) ClientMetadata {
	if m, ok := ctx.Value(clientMetaKey{}).(ClientMetadata); ok {
		return m
	}
	return ClientMetadata{}
}

// WithClientMeta injects client transport metadata into the context.
func WithClientMeta(ctx context.Context, meta ClientMetadata) context.Context {
	return context.WithValue(ctx, clientMetaKey{}, meta)
}

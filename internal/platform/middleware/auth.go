package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"aoiconsole/pkg/requestcontext"
)

// TokenValidator validates session tokens issued at login.
type TokenValidator interface {
	ValidateToken(token string) (requestcontext.SessionUser, error)
}

// Roles that bypass organizational visibility restrictions. Both spellings
// exist in live session data; matching is case-sensitive.
const (
	RoleSuperAdmin    = "superadmin"
	RoleSuperAdminAlt = "super-admin"
)

// IsElevated reports whether a role bypasses all visibility scoping.
func IsElevated(role string) bool {
	return role == RoleSuperAdmin || role == RoleSuperAdminAlt
}

// SessionUser resolves the bearer token into a session user when one is
// present. A missing, malformed, or expired token is logged and the request
// proceeds anonymously: downstream filters fail closed, so this is safe for
// read endpoints and keeps parity with how the UI handled broken session
// storage.
func SessionUser(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "discarding invalid session token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requestcontext.User(r.Context()); !ok {
				unauthorized(w, r, logger, "missing or invalid session token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose session user lacks an elevated role.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := requestcontext.User(r.Context())
			if !ok {
				unauthorized(w, r, logger, "missing or invalid session token")
				return
			}
			if !IsElevated(user.Role) {
				logger.WarnContext(r.Context(), "forbidden admin access",
					"role", user.Role,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.WarnContext(r.Context(), "unauthorized access",
		"reason", reason,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}

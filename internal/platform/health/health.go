// Package health reports process liveness and dependency status.
package health

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	platformredis "aoiconsole/internal/platform/redis"
	"aoiconsole/pkg/platform/httputil"
)

// Handler answers /api/health. Nil dependencies are reported as "disabled"
// rather than failing the check.
type Handler struct {
	db    *sql.DB
	redis *platformredis.Client
}

// New creates a health Handler. db and redis may be nil.
func New(db *sql.DB, redis *platformredis.Client) *Handler {
	return &Handler{db: db, redis: redis}
}

// Register mounts the health route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	switch {
	case h.db == nil:
		checks["postgres"] = "disabled"
	case h.db.PingContext(r.Context()) != nil:
		checks["postgres"] = "down"
		healthy = false
	default:
		checks["postgres"] = "ok"
	}

	switch {
	case h.redis == nil:
		checks["redis"] = "disabled"
	case h.redis.Health(r.Context()) != nil:
		checks["redis"] = "down"
		healthy = false
	default:
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	httputil.WriteJSON(w, status, map[string]any{
		"status": state,
		"checks": checks,
	})
}

// Package handler exposes login, session introspection, and account
// management over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aoiconsole/internal/identity/models"
	"aoiconsole/internal/identity/service"
	"aoiconsole/internal/platform/middleware"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/httputil"
	"aoiconsole/pkg/requestcontext"
)

// Service defines the identity operations the handler needs.
type Service interface {
	Login(ctx context.Context, creds models.Credentials) (service.Session, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Create(ctx context.Context, req models.NewUser) (models.User, error)
	Update(ctx context.Context, id int64, req models.UserUpdate) (models.User, error)
	Delete(ctx context.Context, id int64) error
}

// Handler handles identity endpoints.
type Handler struct {
	logger   *slog.Logger
	identity Service
}

// New creates a new identity Handler.
func New(identity Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, identity: identity}
}

// Register mounts the identity routes. Account management is admin-only.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(h.logger))
		r.Get("/api/me", h.handleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.logger))
		r.Get("/api/users", h.handleList)
		r.Post("/api/users", h.handleCreate)
		r.Get("/api/users/{id}", h.handleGet)
		r.Put("/api/users/{id}", h.handleUpdate)
		r.Delete("/api/users/{id}", h.handleDelete)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := httputil.DecodeJSON(r, &creds); err != nil {
		httputil.WriteError(w, err)
		return
	}
	session, err := h.identity.Login(r.Context(), creds)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := requestcontext.User(r.Context())
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":             user.ID,
		"email":          user.Email,
		"role":           user.Role,
		"subdirectorate": user.Subdirectorate,
		"division":       user.Division,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.identity.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.NewUser
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.identity.Create(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.UserUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.identity.Update(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.identity.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid id")
	}
	return id, nil
}

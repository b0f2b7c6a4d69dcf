// Package handler exposes the organizational hierarchy over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aoiconsole/internal/org/models"
	"aoiconsole/internal/org/service"
	"aoiconsole/internal/platform/middleware"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/httputil"
	"aoiconsole/pkg/requestcontext"
)

// Service defines the hierarchy operations the handler needs.
type Service interface {
	Structure(ctx context.Context, year int) (models.Structure, error)
	SelectionOptions(ctx context.Context, sel service.TargetSelection, year int) (service.SelectionOptions, error)
	CreateNode(ctx context.Context, n models.NewNode) (int64, error)
	CreateNodesBatch(ctx context.Context, nodes []models.NewNode) (int, error)
}

// Handler handles hierarchy endpoints.
type Handler struct {
	logger *slog.Logger
	org    Service
}

// New creates a new hierarchy Handler.
func New(org Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, org: org}
}

// Register mounts the hierarchy routes. Mutations are admin-only.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/config/struktur-organisasi", h.handleStructure)
	r.Get("/api/config/struktur-organisasi/options", h.handleSelectionOptions)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.logger))
		r.Post("/api/config/struktur-organisasi", h.handleCreateNode)
		r.Post("/api/config/struktur-organisasi/batch", h.handleCreateBatch)
	})
}

func (h *Handler) handleStructure(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	structure, err := h.org.Structure(r.Context(), year)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load structure",
			"year", year,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, structure)
}

func (h *Handler) handleSelectionOptions(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sel := service.TargetSelection{
		DirectorateID:    queryInt64(r, "directorateId"),
		SubdirectorateID: queryInt64(r, "subdirectorateId"),
	}
	opts, err := h.org.SelectionOptions(r.Context(), sel, year)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, opts)
}

func (h *Handler) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req models.NewNode
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.org.CreateNode(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req []models.NewNode
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := h.org.CreateNodesBatch(r.Context(), req)
	if err != nil {
		// Partial progress is reported so operators can resume a batch.
		httputil.WriteJSON(w, dErrors.ToHTTPStatus(dErrors.CodeOf(err)), map[string]any{
			"error":   string(dErrors.CodeOf(err)),
			"created": created,
		})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int{"created": created})
}

func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid year")
	}
	return year, nil
}

func queryInt64(r *http.Request, key string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return v
}

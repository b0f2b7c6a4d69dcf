// Package handler exposes AOI tables and recommendations over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aoiconsole/internal/aoi/models"
	"aoiconsole/internal/platform/middleware"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/httputil"
	"aoiconsole/pkg/requestcontext"
)

// Service defines the AOI operations the handler needs.
type Service interface {
	ListVisible(ctx context.Context, year int, user requestcontext.SessionUser) ([]models.RecordTable, error)
	GetTable(ctx context.Context, id int64) (models.RecordTable, error)
	CreateTable(ctx context.Context, req models.NewTable) (models.RecordTable, error)
	UpdateTable(ctx context.Context, id int64, req models.TableUpdate) (models.RecordTable, error)
	DeleteTable(ctx context.Context, id int64) error

	ListRecommendations(ctx context.Context, tableID int64) ([]models.Recommendation, error)
	GetRecommendation(ctx context.Context, id int64) (models.Recommendation, error)
	CreateRecommendation(ctx context.Context, req models.NewRecommendation) (models.Recommendation, error)
	UpdateRecommendation(ctx context.Context, id int64, req models.RecommendationUpdate) (models.Recommendation, error)
	DeleteRecommendation(ctx context.Context, id int64) error
}

// Handler handles AOI endpoints.
type Handler struct {
	logger *slog.Logger
	aoi    Service
}

// New creates a new AOI Handler.
func New(aoi Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, aoi: aoi}
}

// Register mounts the AOI routes. Reads are open (the visibility filter
// fails closed for anonymous callers); mutations need a session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/aoiTables", h.handleListTables)
	r.Get("/api/aoiTables/{id}", h.handleGetTable)
	r.Get("/api/aoiRecommendations", h.handleListRecommendations)
	r.Get("/api/aoiRecommendations/{id}", h.handleGetRecommendation)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(h.logger))
		r.Post("/api/aoiTables", h.handleCreateTable)
		r.Put("/api/aoiTables/{id}", h.handleUpdateTable)
		r.Delete("/api/aoiTables/{id}", h.handleDeleteTable)
		r.Post("/api/aoiRecommendations", h.handleCreateRecommendation)
		r.Put("/api/aoiRecommendations/{id}", h.handleUpdateRecommendation)
		r.Delete("/api/aoiRecommendations/{id}", h.handleDeleteRecommendation)
	})
}

func (h *Handler) handleListTables(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// The session user is the filter input. Query parameters remain as a
	// fallback for legacy clients that pass their placement explicitly.
	user, ok := requestcontext.User(r.Context())
	if !ok {
		q := r.URL.Query()
		user = requestcontext.SessionUser{
			Role:           q.Get("role"),
			Subdirectorate: q.Get("subdirectorate"),
			Division:       q.Get("division"),
		}
	}

	tables, err := h.aoi.ListVisible(r.Context(), year, user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list tables",
			"year", year,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tables)
}

func (h *Handler) handleGetTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	table, err := h.aoi.GetTable(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, table)
}

func (h *Handler) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req models.NewTable
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	table, err := h.aoi.CreateTable(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, table)
}

func (h *Handler) handleUpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.TableUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	table, err := h.aoi.UpdateTable(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, table)
}

func (h *Handler) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.aoi.DeleteTable(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	tableID, err := strconv.ParseInt(r.URL.Query().Get("tableId"), 10, 64)
	if err != nil || tableID == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "tableId is required"))
		return
	}
	recs, err := h.aoi.ListRecommendations(r.Context(), tableID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.aoi.GetRecommendation(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleCreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req models.NewRecommendation
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.aoi.CreateRecommendation(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleUpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.RecommendationUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.aoi.UpdateRecommendation(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.aoi.DeleteRecommendation(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func yearParam(r *http.Request) (int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	return year, nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid id")
	}
	return id, nil
}

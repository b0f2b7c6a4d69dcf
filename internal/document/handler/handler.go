// Package handler exposes document metadata over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aoiconsole/internal/document/models"
	"aoiconsole/internal/document/store"
	"aoiconsole/internal/platform/middleware"
	"aoiconsole/pkg/platform/httputil"
)

// Service defines the document operations the handler needs.
type Service interface {
	List(ctx context.Context, q store.Query) ([]models.Document, error)
	Get(ctx context.Context, id string) (models.Document, error)
	Create(ctx context.Context, req models.NewDocument) (models.Document, error)
	Update(ctx context.Context, id string, req models.DocumentUpdate) (models.Document, error)
	Delete(ctx context.Context, id string) error
}

// Handler handles document metadata endpoints.
type Handler struct {
	logger    *slog.Logger
	documents Service
}

// New creates a new document Handler.
func New(documents Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, documents: documents}
}

// Register mounts the document routes. Mutations need a session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/aoiDocuments", h.handleList)
	r.Get("/api/aoiDocuments/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(h.logger))
		r.Post("/api/aoiDocuments", h.handleCreate)
		r.Put("/api/aoiDocuments/{id}", h.handleUpdate)
		r.Delete("/api/aoiDocuments/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := store.Query{}
	if raw := r.URL.Query().Get("recommendationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			q.RecommendationID = id
		}
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err == nil {
			q.Year = year
		}
	}

	docs, err := h.documents.List(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.NewDocument
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	doc, err := h.documents.Create(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.DocumentUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	doc, err := h.documents.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

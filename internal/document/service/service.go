// Package service implements document metadata operations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"aoiconsole/internal/document/models"
	"aoiconsole/internal/document/store"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/idgen"
	"aoiconsole/pkg/platform/sentinel"
	"aoiconsole/pkg/requestcontext"
)

// Service owns document metadata. Uploader identity is stamped from the
// session user at creation time.
type Service struct {
	store  store.Store
	logger *slog.Logger
	tracer trace.Tracer
}

// New builds the document service.
func New(s store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		logger: logger,
		tracer: otel.Tracer("aoiconsole/document"),
	}
}

// List returns documents matching the query, oldest first.
func (s *Service) List(ctx context.Context, q store.Query) ([]models.Document, error) {
	docs, err := s.store.List(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list documents")
	}
	return docs, nil
}

// Get fetches one document by ID.
func (s *Service) Get(ctx context.Context, id string) (models.Document, error) {
	d, err := s.store.Find(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Document{}, dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	if err != nil {
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "find document")
	}
	return d, nil
}

// Create validates and persists a metadata record, stamping the uploader
// from the session.
func (s *Service) Create(ctx context.Context, req models.NewDocument) (models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "document.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.Document{}, err
	}

	user, _ := requestcontext.User(ctx)
	d := models.Document{
		ID:                     "aoi_" + strconv.FormatInt(idgen.Next(), 10),
		FileName:               req.FileName,
		FileSize:               req.FileSize,
		UploadedAt:             requestcontext.Now(ctx),
		RecommendationID:       req.RecommendationID,
		Kind:                   req.Kind,
		Sequence:               req.Sequence,
		UploaderID:             uploaderID(user),
		UploaderSubdirectorate: user.Subdirectorate,
		UploaderDivision:       user.Division,
		FileType:               req.FileType,
		Status:                 "active",
		Year:                   req.Year,
	}
	if err := s.store.Insert(ctx, d); err != nil {
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "insert document")
	}
	return d, nil
}

// Update replaces the editable metadata fields.
func (s *Service) Update(ctx context.Context, id string, req models.DocumentUpdate) (models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "document.Update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.Document{}, err
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return models.Document{}, err
	}

	d.FileName = req.FileName
	d.FileType = req.FileType
	if req.Status != "" {
		d.Status = req.Status
	}

	if err := s.store.Update(ctx, d); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Document{}, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return models.Document{}, dErrors.Wrap(err, dErrors.CodeInternal, "update document")
	}
	return d, nil
}

// Delete removes a metadata record. Unknown IDs are a no-op success.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete document")
	}
	return nil
}

// DeleteByRecommendation purges all metadata under a recommendation. The
// AOI service calls this when a recommendation or its table goes away.
func (s *Service) DeleteByRecommendation(ctx context.Context, recommendationID int64) error {
	if err := s.store.DeleteByRecommendation(ctx, recommendationID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete documents by recommendation")
	}
	return nil
}

func uploaderID(user requestcontext.SessionUser) string {
	if user.ID == 0 {
		return ""
	}
	return strconv.FormatInt(user.ID, 10)
}

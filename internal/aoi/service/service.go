// Package service implements the AOI table and recommendation operations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"aoiconsole/internal/aoi/models"
	"aoiconsole/internal/aoi/store"
	"aoiconsole/internal/aoi/visibility"
	"aoiconsole/internal/platform/metrics"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/idgen"
	"aoiconsole/pkg/platform/sentinel"
	"aoiconsole/pkg/requestcontext"
)

// Auditor records mutations for the audit trail.
type Auditor interface {
	Record(ctx context.Context, action, subject, detail string)
}

// DocumentCascade removes document metadata when its owning recommendation
// goes away.
type DocumentCascade interface {
	DeleteByRecommendation(ctx context.Context, recommendationID int64) error
}

// Service owns AOI tables and their recommendations. The visibility filter
// is applied on listing; mutations go through validation first so a bad
// request never reaches the store.
type Service struct {
	store     store.Store
	filter    *visibility.Filter
	documents DocumentCascade
	auditor   Auditor
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// New builds the AOI service. documents, auditor, and metrics may be nil.
func New(s store.Store, filter *visibility.Filter, documents DocumentCascade, auditor Auditor, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:     s,
		filter:    filter,
		documents: documents,
		auditor:   auditor,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("aoiconsole/aoi"),
	}
}

// ListVisible returns the year's tables the user may see, in creation order.
func (s *Service) ListVisible(ctx context.Context, year int, user requestcontext.SessionUser) ([]models.RecordTable, error) {
	tables, err := s.store.ListTables(ctx, year)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list tables")
	}
	return s.filter.Apply(ctx, tables, year, user), nil
}

// GetTable fetches one table by ID.
func (s *Service) GetTable(ctx context.Context, id int64) (models.RecordTable, error) {
	t, err := s.store.FindTable(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.RecordTable{}, dErrors.New(dErrors.CodeNotFound, "table not found")
	}
	if err != nil {
		return models.RecordTable{}, dErrors.Wrap(err, dErrors.CodeInternal, "find table")
	}
	return t, nil
}

// CreateTable validates and persists a new table.
func (s *Service) CreateTable(ctx context.Context, req models.NewTable) (models.RecordTable, error) {
	ctx, span := s.tracer.Start(ctx, "aoi.CreateTable")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.RecordTable{}, err
	}

	level := req.TargetLevel
	if level == "" {
		level = models.TargetNone
	}
	t := models.RecordTable{
		ID:                   idgen.Next(),
		Name:                 strings.TrimSpace(req.Name),
		Description:          req.Description,
		Year:                 req.Year,
		Status:               "active",
		TargetLevel:          level,
		TargetDirectorate:    req.TargetDirectorate,
		TargetSubdirectorate: req.TargetSubdirectorate,
		TargetDivision:       req.TargetDivision,
		CreatedAt:            requestcontext.Now(ctx),
	}
	if err := s.store.InsertTable(ctx, t); err != nil {
		return models.RecordTable{}, dErrors.Wrap(err, dErrors.CodeInternal, "insert table")
	}

	s.metrics.IncrementTablesCreated()
	s.audit(ctx, "aoi_table.create", t.ID, t.Name)
	return t, nil
}

// UpdateTable replaces all editable fields of an existing table.
func (s *Service) UpdateTable(ctx context.Context, id int64, req models.TableUpdate) (models.RecordTable, error) {
	ctx, span := s.tracer.Start(ctx, "aoi.UpdateTable")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.RecordTable{}, err
	}
	t, err := s.GetTable(ctx, id)
	if err != nil {
		return models.RecordTable{}, err
	}

	t.Name = strings.TrimSpace(req.Name)
	t.Description = req.Description
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.TargetLevel != "" {
		t.TargetLevel = req.TargetLevel
	}
	t.TargetDirectorate = req.TargetDirectorate
	t.TargetSubdirectorate = req.TargetSubdirectorate
	t.TargetDivision = req.TargetDivision

	if err := s.store.UpdateTable(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.RecordTable{}, dErrors.New(dErrors.CodeNotFound, "table not found")
		}
		return models.RecordTable{}, dErrors.Wrap(err, dErrors.CodeInternal, "update table")
	}

	s.audit(ctx, "aoi_table.update", t.ID, t.Name)
	return t, nil
}

// DeleteTable removes a table and everything under it: recommendations and
// their document metadata.
func (s *Service) DeleteTable(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "aoi.DeleteTable")
	defer span.End()

	recs, err := s.store.ListByTable(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "list recommendations")
	}
	for _, rec := range recs {
		if err := s.cascadeDocuments(ctx, rec.ID); err != nil {
			return err
		}
	}
	if err := s.store.DeleteByTable(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete recommendations")
	}

	err = s.store.DeleteTable(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "table not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete table")
	}

	s.audit(ctx, "aoi_table.delete", id, "")
	return nil
}

// ListRecommendations returns a table's rows ordered by kind then sequence.
func (s *Service) ListRecommendations(ctx context.Context, tableID int64) ([]models.Recommendation, error) {
	recs, err := s.store.ListByTable(ctx, tableID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list recommendations")
	}
	return recs, nil
}

// GetRecommendation fetches one recommendation by ID.
func (s *Service) GetRecommendation(ctx context.Context, id int64) (models.Recommendation, error) {
	rec, err := s.store.FindRecommendation(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Recommendation{}, dErrors.New(dErrors.CodeNotFound, "recommendation not found")
	}
	if err != nil {
		return models.Recommendation{}, dErrors.Wrap(err, dErrors.CodeInternal, "find recommendation")
	}
	return rec, nil
}

// CreateRecommendation validates and persists a new row. The sequence is
// the count of same-kind rows in the table plus one; deletions leave gaps,
// sequences are never reassigned.
func (s *Service) CreateRecommendation(ctx context.Context, req models.NewRecommendation) (models.Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "aoi.CreateRecommendation")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.Recommendation{}, err
	}
	if _, err := s.GetTable(ctx, req.TableID); err != nil {
		return models.Recommendation{}, err
	}

	count, err := s.store.CountByKind(ctx, req.TableID, req.Kind)
	if err != nil {
		return models.Recommendation{}, dErrors.Wrap(err, dErrors.CodeInternal, "count recommendations")
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyNone
	}
	rec := models.Recommendation{
		ID:               idgen.Next(),
		TableID:          req.TableID,
		Kind:             req.Kind,
		Sequence:         count + 1,
		Content:          strings.TrimSpace(req.Content),
		Aspect:           req.Aspect,
		Urgency:          urgency,
		RelatedParty:     req.RelatedParty,
		ResponsibleOrgan: req.ResponsibleOrgan,
		Status:           "active",
		CreatedAt:        requestcontext.Now(ctx),
	}
	if err := s.store.InsertRecommendation(ctx, rec); err != nil {
		return models.Recommendation{}, dErrors.Wrap(err, dErrors.CodeInternal, "insert recommendation")
	}

	s.metrics.IncrementRecommendationsCreated()
	s.audit(ctx, "aoi_recommendation.create", rec.ID, rec.Content)
	return rec, nil
}

// UpdateRecommendation replaces all editable fields. Kind and sequence stay
// fixed.
func (s *Service) UpdateRecommendation(ctx context.Context, id int64, req models.RecommendationUpdate) (models.Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "aoi.UpdateRecommendation")
	defer span.End()

	if err := req.Validate(); err != nil {
		return models.Recommendation{}, err
	}
	rec, err := s.GetRecommendation(ctx, id)
	if err != nil {
		return models.Recommendation{}, err
	}

	rec.Content = strings.TrimSpace(req.Content)
	rec.Aspect = req.Aspect
	if req.Urgency != "" {
		rec.Urgency = req.Urgency
	}
	rec.RelatedParty = req.RelatedParty
	rec.ResponsibleOrgan = req.ResponsibleOrgan
	if req.Status != "" {
		rec.Status = req.Status
	}

	if err := s.store.UpdateRecommendation(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Recommendation{}, dErrors.New(dErrors.CodeNotFound, "recommendation not found")
		}
		return models.Recommendation{}, dErrors.Wrap(err, dErrors.CodeInternal, "update recommendation")
	}

	s.audit(ctx, "aoi_recommendation.update", rec.ID, rec.Content)
	return rec, nil
}

// DeleteRecommendation removes a row and its document metadata. Deleting an
// unknown ID is a no-op success.
func (s *Service) DeleteRecommendation(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "aoi.DeleteRecommendation")
	defer span.End()

	if err := s.cascadeDocuments(ctx, id); err != nil {
		return err
	}
	err := s.store.DeleteRecommendation(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete recommendation")
	}

	s.audit(ctx, "aoi_recommendation.delete", id, "")
	return nil
}

func (s *Service) cascadeDocuments(ctx context.Context, recommendationID int64) error {
	if s.documents == nil {
		return nil
	}
	if err := s.documents.DeleteByRecommendation(ctx, recommendationID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete documents")
	}
	return nil
}

func (s *Service) audit(ctx context.Context, action string, subjectID int64, detail string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, action, subjectLabel(subjectID), detail)
}

func subjectLabel(id int64) string {
	if id == 0 {
		return ""
	}
	return "id=" + strconv.FormatInt(id, 10)
}

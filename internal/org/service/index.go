// Package service implements the read-side hierarchy index and the admin
// operations that maintain it.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"aoiconsole/internal/org/models"
	"aoiconsole/internal/org/store"
	platformredis "aoiconsole/internal/platform/redis"
	dErrors "aoiconsole/pkg/domain-errors"
	"aoiconsole/pkg/platform/idgen"
	"aoiconsole/pkg/platform/sentinel"
	"aoiconsole/pkg/requestcontext"
)

// structureCacheTTL bounds how stale a cached per-year snapshot may get when
// another process writes nodes behind our back.
const structureCacheTTL = 5 * time.Minute

// Index answers hierarchy questions for a given year: children of a node and
// the parent chain of a node. It is a pure read-side view over externally
// maintained collections, plus the admin inserts that feed them.
type Index struct {
	store  store.Store
	cache  *platformredis.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// NewIndex builds the hierarchy index. cache may be nil.
func NewIndex(s store.Store, cache *platformredis.Client, logger *slog.Logger) *Index {
	return &Index{
		store:  s,
		cache:  cache,
		logger: logger,
		tracer: otel.Tracer("aoiconsole/org"),
	}
}

// SubdirectoratesOf lists the name-ordered subdirectorates under a
// directorate for the year. Empty slice when there are none.
func (s *Index) SubdirectoratesOf(ctx context.Context, directorateID int64, year int) ([]models.Subdirectorate, error) {
	return s.store.SubdirectoratesOf(ctx, directorateID, year)
}

// DivisionsOf lists the name-ordered divisions under a subdirectorate for the
// year. Empty slice when there are none.
func (s *Index) DivisionsOf(ctx context.Context, subdirectorateID int64, year int) ([]models.Division, error) {
	return s.store.DivisionsOf(ctx, subdirectorateID, year)
}

// ResolveDirectorateForUser walks from a user's subdirectorate name to its
// owning directorate for the year. Reference data is maintained by hand and
// does go inconsistent; a miss at either hop is a warning and a not_found,
// never a crash.
func (s *Index) ResolveDirectorateForUser(ctx context.Context, subdirectorateName string, year int) (models.Directorate, error) {
	sd, err := s.store.FindSubdirectorateByName(ctx, subdirectorateName, year)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "subdirectorate not found while resolving directorate",
				"subdirectorate", subdirectorateName,
				"year", year,
			)
			return models.Directorate{}, dErrors.New(dErrors.CodeNotFound, "subdirectorate not found")
		}
		return models.Directorate{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve subdirectorate")
	}

	d, err := s.store.FindDirectorateByID(ctx, sd.DirectorateID, year)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "dangling directorate reference",
				"subdirectorate", subdirectorateName,
				"directorate_id", sd.DirectorateID,
				"year", year,
			)
			return models.Directorate{}, dErrors.New(dErrors.CodeNotFound, "directorate not found")
		}
		return models.Directorate{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve directorate")
	}
	return d, nil
}

// Structure returns the full snapshot for a year, served from Redis when the
// cache is warm. Cache trouble degrades silently to the store.
func (s *Index) Structure(ctx context.Context, year int) (models.Structure, error) {
	key := structureCacheKey(year)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached models.Structure
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	directorates, err := s.store.ListDirectorates(ctx, year)
	if err != nil {
		return models.Structure{}, dErrors.Wrap(err, dErrors.CodeInternal, "list directorates")
	}
	subdirectorates, err := s.store.ListSubdirectorates(ctx, year)
	if err != nil {
		return models.Structure{}, dErrors.Wrap(err, dErrors.CodeInternal, "list subdirectorates")
	}
	divisions, err := s.store.ListDivisions(ctx, year)
	if err != nil {
		return models.Structure{}, dErrors.Wrap(err, dErrors.CodeInternal, "list divisions")
	}

	structure := models.Structure{
		Directorates:    directorates,
		Subdirectorates: subdirectorates,
		Divisions:       divisions,
	}
	if s.cache != nil {
		if raw, err := json.Marshal(structure); err == nil {
			if err := s.cache.Set(ctx, key, raw, structureCacheTTL).Err(); err != nil {
				s.logger.WarnContext(ctx, "structure cache write failed", "error", err)
			}
		}
	}
	return structure, nil
}

// CreateNode inserts one hierarchy node. The parent must exist in the same
// year; cross-year parents count as missing.
func (s *Index) CreateNode(ctx context.Context, n models.NewNode) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "org.CreateNode")
	defer span.End()

	if err := n.Validate(); err != nil {
		return 0, err
	}

	id := idgen.Next()
	now := requestcontext.Now(ctx)
	name := strings.TrimSpace(n.Name)

	var err error
	switch n.Type {
	case models.NodeDirectorate:
		err = s.store.InsertDirectorate(ctx, models.Directorate{
			ID: id, Name: name, Description: n.Description, Year: n.Year,
			Active: true, CreatedAt: now,
		})
	case models.NodeSubdirectorate:
		if _, ferr := s.store.FindDirectorateByID(ctx, n.ParentID, n.Year); ferr != nil {
			return 0, dErrors.New(dErrors.CodeBadRequest, "parent directorate not found for year")
		}
		err = s.store.InsertSubdirectorate(ctx, models.Subdirectorate{
			ID: id, Name: name, Description: n.Description, Year: n.Year,
			DirectorateID: n.ParentID, Active: true, CreatedAt: now,
		})
	case models.NodeDivision:
		if _, ferr := s.store.FindSubdirectorateByID(ctx, n.ParentID, n.Year); ferr != nil {
			return 0, dErrors.New(dErrors.CodeBadRequest, "parent subdirectorate not found for year")
		}
		err = s.store.InsertDivision(ctx, models.Division{
			ID: id, Name: name, Description: n.Description, Year: n.Year,
			SubdirectorateID: n.ParentID, Active: true, CreatedAt: now,
		})
	}
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return 0, dErrors.New(dErrors.CodeConflict, "node name already exists for year")
	}
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "insert node")
	}

	s.invalidateStructure(ctx, n.Year)
	return id, nil
}

// CreateNodesBatch inserts nodes in order, stopping at the first failure and
// reporting how many landed.
func (s *Index) CreateNodesBatch(ctx context.Context, nodes []models.NewNode) (int, error) {
	for i, n := range nodes {
		if _, err := s.CreateNode(ctx, n); err != nil {
			return i, err
		}
	}
	return len(nodes), nil
}

func (s *Index) invalidateStructure(ctx context.Context, year int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, structureCacheKey(year)).Err(); err != nil {
		s.logger.WarnContext(ctx, "structure cache invalidation failed", "year", year, "error", err)
	}
}

func structureCacheKey(year int) string {
	return fmt.Sprintf("org:structure:%d", year)
}

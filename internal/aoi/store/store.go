// Package store persists AOI tables and their recommendations.
package store

import (
	"context"

	"aoiconsole/internal/aoi/models"
)

// Store is the persistence contract for the AOI domain. Implementations
// return sentinel.ErrNotFound for missing rows; list methods return empty
// slices, never nil.
type Store interface {
	// Tables. ListTables preserves creation order within a year.
	ListTables(ctx context.Context, year int) ([]models.RecordTable, error)
	FindTable(ctx context.Context, id int64) (models.RecordTable, error)
	InsertTable(ctx context.Context, t models.RecordTable) error
	UpdateTable(ctx context.Context, t models.RecordTable) error
	DeleteTable(ctx context.Context, id int64) error

	// Recommendations. ListByTable orders by kind then sequence.
	ListByTable(ctx context.Context, tableID int64) ([]models.Recommendation, error)
	CountByKind(ctx context.Context, tableID int64, kind models.Kind) (int, error)
	FindRecommendation(ctx context.Context, id int64) (models.Recommendation, error)
	InsertRecommendation(ctx context.Context, rec models.Recommendation) error
	UpdateRecommendation(ctx context.Context, rec models.Recommendation) error
	DeleteRecommendation(ctx context.Context, id int64) error
	DeleteByTable(ctx context.Context, tableID int64) error
}

// Package store persists document metadata.
package store

import (
	"context"

	"aoiconsole/internal/document/models"
)

// Query narrows a listing. Zero fields mean "no restriction".
type Query struct {
	RecommendationID int64
	Year             int
}

// Store is the persistence contract for document metadata.
type Store interface {
	List(ctx context.Context, q Query) ([]models.Document, error)
	Find(ctx context.Context, id string) (models.Document, error)
	Insert(ctx context.Context, d models.Document) error
	Update(ctx context.Context, d models.Document) error
	Delete(ctx context.Context, id string) error
	DeleteByRecommendation(ctx context.Context, recommendationID int64) error
}

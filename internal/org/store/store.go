// Package store persists the organizational hierarchy. Stores are
// interface-driven so the in-memory and Postgres implementations stay
// interchangeable for tests and deployments.
package store

import (
	"context"

	"aoiconsole/internal/org/models"
)

// Store answers year-scoped hierarchy reads and admin-side inserts.
// List results are ordered by name and contain active rows only.
type Store interface {
	ListDirectorates(ctx context.Context, year int) ([]models.Directorate, error)
	ListSubdirectorates(ctx context.Context, year int) ([]models.Subdirectorate, error)
	ListDivisions(ctx context.Context, year int) ([]models.Division, error)

	SubdirectoratesOf(ctx context.Context, directorateID int64, year int) ([]models.Subdirectorate, error)
	DivisionsOf(ctx context.Context, subdirectorateID int64, year int) ([]models.Division, error)

	FindDirectorateByID(ctx context.Context, id int64, year int) (models.Directorate, error)
	FindSubdirectorateByID(ctx context.Context, id int64, year int) (models.Subdirectorate, error)
	FindSubdirectorateByName(ctx context.Context, name string, year int) (models.Subdirectorate, error)

	InsertDirectorate(ctx context.Context, d models.Directorate) error
	InsertSubdirectorate(ctx context.Context, sd models.Subdirectorate) error
	InsertDivision(ctx context.Context, dv models.Division) error
}

// Package store persists user accounts.
package store

import (
	"context"

	"aoiconsole/internal/identity/models"
)

// Store is the persistence contract for accounts. Email is unique;
// inserting a duplicate returns sentinel.ErrAlreadyUsed.
type Store interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Insert(ctx context.Context, u models.User) error
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id int64) error
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"aoiconsole/internal/identity/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Postgres persists accounts in the users table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = `id, email, name, password_hash, role, directorate,
	subdirectorate, division, year, created_at`

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Postgres) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Directorate,
			&u.Subdirectorate, &u.Division, &u.Year, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (models.User, error) {
	return s.findUser(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)`, email)
}

func (s *Postgres) findUser(ctx context.Context, query string, args ...any) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Directorate,
			&u.Subdirectorate, &u.Division, &u.Year, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Postgres) Insert(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, directorate,
			subdirectorate, division, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Directorate,
		u.Subdirectorate, u.Division, u.Year, u.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, u models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, password_hash = $3, role = $4, directorate = $5,
			subdirectorate = $6, division = $7, year = $8
		WHERE id = $1`,
		u.ID, u.Name, u.PasswordHash, u.Role, u.Directorate,
		u.Subdirectorate, u.Division, u.Year)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

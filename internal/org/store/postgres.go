package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"aoiconsole/internal/org/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Postgres persists the hierarchy in the directorates/subdirectorates/
// divisions tables.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Postgres) ListDirectorates(ctx context.Context, year int) ([]models.Directorate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, year, active, created_at
		FROM directorates
		WHERE active AND year = $1
		ORDER BY name`, year)
	if err != nil {
		return nil, fmt.Errorf("list directorates: %w", err)
	}
	defer rows.Close()

	out := make([]models.Directorate, 0)
	for rows.Next() {
		var d models.Directorate
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Year, &d.Active, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan directorate: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Postgres) ListSubdirectorates(ctx context.Context, year int) ([]models.Subdirectorate, error) {
	return s.querySubdirectorates(ctx, `
		SELECT id, name, description, year, directorate_id, active, created_at
		FROM subdirectorates
		WHERE active AND year = $1
		ORDER BY name`, year)
}

func (s *Postgres) SubdirectoratesOf(ctx context.Context, directorateID int64, year int) ([]models.Subdirectorate, error) {
	return s.querySubdirectorates(ctx, `
		SELECT id, name, description, year, directorate_id, active, created_at
		FROM subdirectorates
		WHERE active AND year = $1 AND directorate_id = $2
		ORDER BY name`, year, directorateID)
}

func (s *Postgres) querySubdirectorates(ctx context.Context, query string, args ...any) ([]models.Subdirectorate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subdirectorates: %w", err)
	}
	defer rows.Close()

	out := make([]models.Subdirectorate, 0)
	for rows.Next() {
		var sd models.Subdirectorate
		if err := rows.Scan(&sd.ID, &sd.Name, &sd.Description, &sd.Year, &sd.DirectorateID, &sd.Active, &sd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subdirectorate: %w", err)
		}
		out = append(out, sd)
	}
	return out, rows.Err()
}

func (s *Postgres) ListDivisions(ctx context.Context, year int) ([]models.Division, error) {
	return s.queryDivisions(ctx, `
		SELECT id, name, description, year, subdirectorate_id, active, created_at
		FROM divisions
		WHERE active AND year = $1
		ORDER BY name`, year)
}

func (s *Postgres) DivisionsOf(ctx context.Context, subdirectorateID int64, year int) ([]models.Division, error) {
	return s.queryDivisions(ctx, `
		SELECT id, name, description, year, subdirectorate_id, active, created_at
		FROM divisions
		WHERE active AND year = $1 AND subdirectorate_id = $2
		ORDER BY name`, year, subdirectorateID)
}

func (s *Postgres) queryDivisions(ctx context.Context, query string, args ...any) ([]models.Division, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query divisions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Division, 0)
	for rows.Next() {
		var dv models.Division
		if err := rows.Scan(&dv.ID, &dv.Name, &dv.Description, &dv.Year, &dv.SubdirectorateID, &dv.Active, &dv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan division: %w", err)
		}
		out = append(out, dv)
	}
	return out, rows.Err()
}

func (s *Postgres) FindDirectorateByID(ctx context.Context, id int64, year int) (models.Directorate, error) {
	var d models.Directorate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, year, active, created_at
		FROM directorates
		WHERE active AND id = $1 AND year = $2`, id, year).
		Scan(&d.ID, &d.Name, &d.Description, &d.Year, &d.Active, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Directorate{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Directorate{}, fmt.Errorf("find directorate: %w", err)
	}
	return d, nil
}

func (s *Postgres) FindSubdirectorateByID(ctx context.Context, id int64, year int) (models.Subdirectorate, error) {
	return s.findSubdirectorate(ctx, `
		SELECT id, name, description, year, directorate_id, active, created_at
		FROM subdirectorates
		WHERE active AND id = $1 AND year = $2`, id, year)
}

func (s *Postgres) FindSubdirectorateByName(ctx context.Context, name string, year int) (models.Subdirectorate, error) {
	return s.findSubdirectorate(ctx, `
		SELECT id, name, description, year, directorate_id, active, created_at
		FROM subdirectorates
		WHERE active AND name = $1 AND year = $2`, name, year)
}

func (s *Postgres) findSubdirectorate(ctx context.Context, query string, args ...any) (models.Subdirectorate, error) {
	var sd models.Subdirectorate
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&sd.ID, &sd.Name, &sd.Description, &sd.Year, &sd.DirectorateID, &sd.Active, &sd.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subdirectorate{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Subdirectorate{}, fmt.Errorf("find subdirectorate: %w", err)
	}
	return sd, nil
}

func (s *Postgres) InsertDirectorate(ctx context.Context, d models.Directorate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO directorates (id, name, description, year, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Name, d.Description, d.Year, d.Active, d.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert directorate: %w", err)
	}
	return nil
}

func (s *Postgres) InsertSubdirectorate(ctx context.Context, sd models.Subdirectorate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subdirectorates (id, name, description, year, directorate_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sd.ID, sd.Name, sd.Description, sd.Year, sd.DirectorateID, sd.Active, sd.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert subdirectorate: %w", err)
	}
	return nil
}

func (s *Postgres) InsertDivision(ctx context.Context, dv models.Division) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO divisions (id, name, description, year, subdirectorate_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dv.ID, dv.Name, dv.Description, dv.Year, dv.SubdirectorateID, dv.Active, dv.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert division: %w", err)
	}
	return nil
}

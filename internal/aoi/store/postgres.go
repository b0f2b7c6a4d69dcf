package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aoiconsole/internal/aoi/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Postgres persists AOI tables and recommendations in the aoi_tables and
// aoi_recommendations tables.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const tableColumns = `id, name, description, year, status, target_level,
	target_directorate, target_subdirectorate, target_division, created_at`

func (s *Postgres) ListTables(ctx context.Context, year int) ([]models.RecordTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tableColumns+`
		FROM aoi_tables
		WHERE year = $1
		ORDER BY created_at, id`, year)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	out := make([]models.RecordTable, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Postgres) FindTable(ctx context.Context, id int64) (models.RecordTable, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tableColumns+`
		FROM aoi_tables
		WHERE id = $1`, id)
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecordTable{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.RecordTable{}, err
	}
	return t, nil
}

func (s *Postgres) InsertTable(ctx context.Context, t models.RecordTable) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aoi_tables (id, name, description, year, status, target_level,
			target_directorate, target_subdirectorate, target_division, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Name, t.Description, t.Year, t.Status, t.TargetLevel,
		t.TargetDirectorate, t.TargetSubdirectorate, t.TargetDivision, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateTable(ctx context.Context, t models.RecordTable) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE aoi_tables
		SET name = $2, description = $3, status = $4, target_level = $5,
			target_directorate = $6, target_subdirectorate = $7, target_division = $8
		WHERE id = $1`,
		t.ID, t.Name, t.Description, t.Status, t.TargetLevel,
		t.TargetDirectorate, t.TargetSubdirectorate, t.TargetDivision)
	if err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) DeleteTable(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM aoi_tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	return requireRow(res)
}

const recommendationColumns = `id, table_id, kind, sequence, content, aspect,
	urgency, related_party, responsible_organ, status, created_at`

func (s *Postgres) ListByTable(ctx context.Context, tableID int64) ([]models.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recommendationColumns+`
		FROM aoi_recommendations
		WHERE table_id = $1
		ORDER BY kind, sequence`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Recommendation, 0)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Postgres) CountByKind(ctx context.Context, tableID int64, kind models.Kind) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT count(*)
		FROM aoi_recommendations
		WHERE table_id = $1 AND kind = $2`, tableID, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return n, nil
}

func (s *Postgres) FindRecommendation(ctx context.Context, id int64) (models.Recommendation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recommendationColumns+`
		FROM aoi_recommendations
		WHERE id = $1`, id)
	rec, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recommendation{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Recommendation{}, err
	}
	return rec, nil
}

func (s *Postgres) InsertRecommendation(ctx context.Context, rec models.Recommendation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aoi_recommendations (id, table_id, kind, sequence, content, aspect,
			urgency, related_party, responsible_organ, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.TableID, rec.Kind, rec.Sequence, rec.Content, rec.Aspect,
		rec.Urgency, rec.RelatedParty, rec.ResponsibleOrgan, rec.Status, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateRecommendation(ctx context.Context, rec models.Recommendation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE aoi_recommendations
		SET content = $2, aspect = $3, urgency = $4, related_party = $5,
			responsible_organ = $6, status = $7
		WHERE id = $1`,
		rec.ID, rec.Content, rec.Aspect, rec.Urgency, rec.RelatedParty,
		rec.ResponsibleOrgan, rec.Status)
	if err != nil {
		return fmt.Errorf("update recommendation: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) DeleteRecommendation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM aoi_recommendations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recommendation: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) DeleteByTable(ctx context.Context, tableID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM aoi_recommendations WHERE table_id = $1`, tableID)
	if err != nil {
		return fmt.Errorf("delete recommendations by table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (models.RecordTable, error) {
	var t models.RecordTable
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Year, &t.Status, &t.TargetLevel,
		&t.TargetDirectorate, &t.TargetSubdirectorate, &t.TargetDivision, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecordTable{}, sql.ErrNoRows
	}
	if err != nil {
		return models.RecordTable{}, fmt.Errorf("scan table: %w", err)
	}
	return t, nil
}

func scanRecommendation(row rowScanner) (models.Recommendation, error) {
	var rec models.Recommendation
	err := row.Scan(&rec.ID, &rec.TableID, &rec.Kind, &rec.Sequence, &rec.Content, &rec.Aspect,
		&rec.Urgency, &rec.RelatedParty, &rec.ResponsibleOrgan, &rec.Status, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recommendation{}, sql.ErrNoRows
	}
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("scan recommendation: %w", err)
	}
	return rec, nil
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

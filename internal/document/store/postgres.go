package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"aoiconsole/internal/document/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Postgres persists document metadata in the aoi_documents table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const documentColumns = `id, file_name, file_size, uploaded_at, recommendation_id,
	kind, sequence, uploader_id, uploader_subdirectorate, uploader_division,
	file_type, status, year`

func (s *Postgres) List(ctx context.Context, q Query) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM aoi_documents`
	var (
		clauses []string
		args    []any
	)
	if q.RecommendationID != 0 {
		args = append(args, q.RecommendationID)
		clauses = append(clauses, "recommendation_id = $"+strconv.Itoa(len(args)))
	}
	if q.Year != 0 {
		args = append(args, q.Year)
		clauses = append(clauses, "year = $"+strconv.Itoa(len(args)))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY uploaded_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := scanDocument(rows.Scan, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Postgres) Find(ctx context.Context, id string) (models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM aoi_documents
		WHERE id = $1`, id)
	var d models.Document
	err := scanDocument(row.Scan, &d)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Document{}, err
	}
	return d, nil
}

func (s *Postgres) Insert(ctx context.Context, d models.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aoi_documents (id, file_name, file_size, uploaded_at, recommendation_id,
			kind, sequence, uploader_id, uploader_subdirectorate, uploader_division,
			file_type, status, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.FileName, d.FileSize, d.UploadedAt, d.RecommendationID,
		d.Kind, d.Sequence, d.UploaderID, d.UploaderSubdirectorate, d.UploaderDivision,
		d.FileType, d.Status, d.Year)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, d models.Document) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE aoi_documents
		SET file_name = $2, file_type = $3, status = $4
		WHERE id = $1`,
		d.ID, d.FileName, d.FileType, d.Status)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM aoi_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) DeleteByRecommendation(ctx context.Context, recommendationID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM aoi_documents WHERE recommendation_id = $1`, recommendationID)
	if err != nil {
		return fmt.Errorf("delete documents by recommendation: %w", err)
	}
	return nil
}

func scanDocument(scan func(...any) error, d *models.Document) error {
	err := scan(&d.ID, &d.FileName, &d.FileSize, &d.UploadedAt, &d.RecommendationID,
		&d.Kind, &d.Sequence, &d.UploaderID, &d.UploaderSubdirectorate, &d.UploaderDivision,
		&d.FileType, &d.Status, &d.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("scan document: %w", err)
	}
	return nil
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

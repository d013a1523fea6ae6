package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/pdftext-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, ext *models.Extraction) error
	GetByID(ctx context.Context, id string) (*models.Extraction, error)
	UpdateResult(ctx context.Context, ext *models.Extraction) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// extractionRow is the stored shape of an Extraction; pages are kept as JSON.
type extractionRow struct {
	models.Extraction
	PagesJSON string `db:"pages"`
}

func (r *repository) Create(ctx context.Context, ext *models.Extraction) error {
	pages, err := json.Marshal(ext.Pages)
	if err != nil {
		return fmt.Errorf("failed to encode pages: %w", err)
	}

	query := `
		INSERT INTO extractions (id, filename, file_size, s3_key, title, author, total_pages, pages, last_modified, created_at, updated_at)
		VALUES (:id, :filename, :file_size, :s3_key, :title, :author, :total_pages, :pages, :last_modified, :created_at, :updated_at)
	`

	_, err = r.db.NamedExecContext(ctx, query, extractionRow{Extraction: *ext, PagesJSON: string(pages)})
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.Extraction, error) {
	var row extractionRow

	query := `
		SELECT id, filename, file_size, s3_key, title, author, total_pages, pages,
		       last_modified, created_at, updated_at
		FROM extractions
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ext := row.Extraction
	if err := json.Unmarshal([]byte(row.PagesJSON), &ext.Pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages: %w", err)
	}

	return &ext, nil
}

func (r *repository) UpdateResult(ctx context.Context, ext *models.Extraction) error {
	pages, err := json.Marshal(ext.Pages)
	if err != nil {
		return fmt.Errorf("failed to encode pages: %w", err)
	}

	ext.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE extractions
		SET title = ?, author = ?, total_pages = ?, pages = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		ext.Title,
		ext.Author,
		ext.TotalPages,
		string(pages),
		ext.UpdatedAt,
		ext.ID,
	)

	return err
}

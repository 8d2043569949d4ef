package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
)

// StatusRepoImpl provides a concrete implementation for the StatusRepository interface using PostgreSQL.
type StatusRepoImpl struct {
	db *pgxpool.Pool
}

// NewStatusRepo creates a new instance of StatusRepoImpl.
func NewStatusRepo(db *pgxpool.Pool) *StatusRepoImpl {
	return &StatusRepoImpl{db: db}
}

// InitializeEntry inserts a Pending row and leaves existing rows untouched.
func (r *StatusRepoImpl) InitializeEntry(ctx context.Context, url string) error {
	query := `
		INSERT INTO extraction_status (url, status)
		VALUES ($1, $2)
		ON CONFLICT (url) DO NOTHING;
	`
	if _, err := r.db.Exec(ctx, query, url, entity.StatusPending); err != nil {
		return fmt.Errorf("initialize status for %s: %w", url, err)
	}
	return nil
}

// UpdateStatus upserts the status column of the URL's row.
func (r *StatusRepoImpl) UpdateStatus(ctx context.Context, url, status string) error {
	query := `
		INSERT INTO extraction_status (url, status)
		VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = NOW();
	`
	if _, err := r.db.Exec(ctx, query, url, status); err != nil {
		return fmt.Errorf("update status for %s: %w", url, err)
	}
	return nil
}

// FindByURL returns repository.ErrNotFound when the URL has no row.
func (r *StatusRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ExtractionStatus, error) {
	query := `SELECT url, status, created_at, updated_at FROM extraction_status WHERE url = $1;`

	var s entity.ExtractionStatus
	err := r.db.QueryRow(ctx, query, url).Scan(&s.URL, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find status for %s: %w", url, err)
	}
	return &s, nil
}

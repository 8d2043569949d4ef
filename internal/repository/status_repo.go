package repository

import (
	"context"

	"github.com/user/extraction-service/internal/entity"
)

// StatusRepository is the tabular store holding one status row per URL.
type StatusRepository interface {
	// InitializeEntry creates a Pending row for the URL unless one already exists.
	InitializeEntry(ctx context.Context, url string) error
	// UpdateStatus sets the status column of the URL's row, creating it if needed.
	UpdateStatus(ctx context.Context, url, status string) error
	// FindByURL returns ErrNotFound when the URL has no row.
	FindByURL(ctx context.Context, url string) (*entity.ExtractionStatus, error)
}

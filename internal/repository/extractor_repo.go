package repository

import (
	"context"

	"github.com/user/extraction-service/internal/entity"
)

// ExtractorRepository defines the contract for the routine that pulls company and product data out of a page.
type ExtractorRepository interface {
	// Extract loads a URL and returns the data found on it.
	Extract(ctx context.Context, url, extractionID string) (*entity.ExtractedData, error)
}

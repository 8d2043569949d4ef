package repository

import (
	"context"

	"github.com/user/extraction-service/internal/entity"
)

// StateStore owns the transient progress records, keyed by extraction ID.
// Every method except Create and Delete returns ErrStateNotFound for unknown IDs.
type StateStore interface {
	Create(ctx context.Context, state *entity.ExtractionState) error
	UpdateProgress(ctx context.Context, extractionID string, progress int, stage string) error
	Get(ctx context.Context, extractionID string) (*entity.ExtractionState, error)
	SetPaused(ctx context.Context, extractionID string, paused bool) error
	SetStopped(ctx context.Context, extractionID string, stopped bool) error
	// Delete is a no-op for unknown IDs.
	Delete(ctx context.Context, extractionID string) error
}

package repository

import (
	"context"

	"github.com/user/extraction-service/internal/entity"
)

// OperationLogRepository is the persistent sink for extraction log entries.
type OperationLogRepository interface {
	// Append writes one entry.
	Append(ctx context.Context, entry *entity.OperationLog) error
	// ListByExtraction returns the entries of one extraction, oldest first.
	ListByExtraction(ctx context.Context, extractionID string, limit int) ([]*entity.OperationLog, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/extraction-service/internal/entity"
)

// OperationLogRepoImpl provides a concrete implementation for the OperationLogRepository interface using PostgreSQL.
type OperationLogRepoImpl struct {
	db *pgxpool.Pool
}

// NewOperationLogRepo creates a new instance of OperationLogRepoImpl.
func NewOperationLogRepo(db *pgxpool.Pool) *OperationLogRepoImpl {
	return &OperationLogRepoImpl{db: db}
}

func (r *OperationLogRepoImpl) Append(ctx context.Context, entry *entity.OperationLog) error {
	query := `
		INSERT INTO extraction_logs (url, extraction_id, category, event, message, duration_ms, stack, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		entry.URL,
		entry.ExtractionID,
		entry.Category,
		entry.Event,
		entry.Message,
		entry.DurationMS,
		entry.Stack,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("append operation log: %w", err)
	}
	return nil
}

// ListByExtraction returns entries oldest first.
func (r *OperationLogRepoImpl) ListByExtraction(ctx context.Context, extractionID string, limit int) ([]*entity.OperationLog, error) {
	query := `
		SELECT id, url, extraction_id, category, event, message, duration_ms, stack, created_at
		FROM extraction_logs
		WHERE extraction_id = $1
		ORDER BY id ASC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, extractionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list operation logs: %w", err)
	}

	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.OperationLog, error) {
		var e entity.OperationLog
		err := row.Scan(&e.ID, &e.URL, &e.ExtractionID, &e.Category, &e.Event, &e.Message, &e.DurationMS, &e.Stack, &e.CreatedAt)
		return &e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan operation logs: %w", err)
	}
	return logs, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is idempotent and runs on every start-up.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS extraction_status (
		url        TEXT PRIMARY KEY,
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS extracted_data (
		id               BIGSERIAL PRIMARY KEY,
		url              TEXT UNIQUE NOT NULL,
		title            TEXT NOT NULL DEFAULT '',
		company_name     TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		website          TEXT NOT NULL DEFAULT '',
		logo             TEXT NOT NULL DEFAULT '',
		emails           TEXT[] NOT NULL DEFAULT '{}',
		phones           TEXT[] NOT NULL DEFAULT '{}',
		social_links     JSONB NOT NULL DEFAULT '{}',
		products         JSONB NOT NULL DEFAULT '[]',
		http_status_code INT NOT NULL DEFAULT 0,
		response_time_ms INT NOT NULL DEFAULT 0,
		extracted_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS extraction_logs (
		id            BIGSERIAL PRIMARY KEY,
		url           TEXT NOT NULL,
		extraction_id TEXT NOT NULL DEFAULT '',
		category      TEXT NOT NULL,
		event         TEXT NOT NULL,
		message       TEXT NOT NULL,
		duration_ms   BIGINT,
		stack         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS extraction_logs_extraction_id_idx ON extraction_logs (extraction_id, id)`,
}

// EnsureSchema creates the tables used by the service if they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

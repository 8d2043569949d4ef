package entity

import "time"

// Status values stored in the extraction_status table.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// ExtractionStatus mirrors the `extraction_status` PostgreSQL table schema.
type ExtractionStatus struct {
	URL       string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

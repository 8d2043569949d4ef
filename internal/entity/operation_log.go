package entity

import "time"

// Operation log categories.
const (
	CategoryExtraction      = "Extraction"
	CategoryDataExtraction  = "DataExtraction"
	CategoryDataStorage     = "DataStorage"
	CategoryValidationError = "ValidationError"
	CategoryExtractionError = "ExtractionError"
	CategoryStorageError    = "StorageError"
	CategoryProcessingError = "ProcessingError"
)

// Operation log events.
const (
	EventStarted   = "Started"
	EventCompleted = "Completed"
	EventFailed    = "Failed"
	EventError     = "Error"
)

// OperationLog mirrors the `extraction_logs` PostgreSQL table schema.
type OperationLog struct {
	ID           int64     `json:"id,omitempty"`
	URL          string    `json:"url"`
	ExtractionID string    `json:"extraction_id,omitempty"`
	Category     string    `json:"category"`
	Event        string    `json:"event"`
	Message      string    `json:"message"`
	DurationMS   *int64    `json:"duration_ms,omitempty"` // nil when the entry carries no timing
	Stack        string    `json:"stack,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

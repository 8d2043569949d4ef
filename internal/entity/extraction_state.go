package entity

import "time"

// ExtractionState is the transient progress record of one extraction attempt.
// It lives only for the duration of the attempt and is keyed by extraction ID.
type ExtractionState struct {
	ExtractionID string    `json:"extraction_id"`
	Paused       bool      `json:"paused"`
	Stopped      bool      `json:"stopped"`
	URL          string    `json:"url"`
	StartTime    time.Time `json:"start_time"`
	Progress     int       `json:"progress"` // 0-100
	Stage        string    `json:"stage"`
}

// Progress stages reported by the orchestrator.
const (
	StageInitializing       = "Initializing"
	StageValidatingURL      = "Validating URL"
	StageStartingExtraction = "Starting extraction"
	StageCompleted          = "Completed"
)

// ClampProgress keeps a progress value inside 0..100.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

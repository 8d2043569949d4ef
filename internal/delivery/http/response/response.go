package response

import "time"

type ExtractionAcceptedResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ExtractionID string `json:"extraction_id"`
}

// ProgressResponse is a DTO for the transient progress record.
type ProgressResponse struct {
	ExtractionID string    `json:"extraction_id"`
	URL          string    `json:"url"`
	Progress     int       `json:"progress"`
	Stage        string    `json:"stage"`
	Paused       bool      `json:"paused"`
	Stopped      bool      `json:"stopped"`
	StartTime    time.Time `json:"start_time"`
}

// StatusResponse is a DTO for a row of the status table.
type StatusResponse struct {
	URL       string    `json:"url"`
	Status    string    `json:"status"` // "Pending", "In Progress", "Completed", "Failed"
	UpdatedAt time.Time `json:"updated_at"`
}

package request

// ProcessURLRequest is the payload of POST /api/extractions.
type ProcessURLRequest struct {
	URL          string `json:"url"`
	ExtractionID string `json:"extraction_id"`
	// Async returns 202 immediately; progress is then polled by extraction ID.
	Async bool `json:"async"`
}

package entity

// Result is what an extraction attempt reports back to its caller.
type Result struct {
	Success bool           `json:"success"`
	Data    *ExtractedData `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

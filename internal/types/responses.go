package types

// ErrorResponse represents an error response
// Example: {"error":"Project not found"}
type ErrorResponse struct {
	// Error message describing what went wrong
	Error string `json:"error"`

	// Optional additional details about the error
	Details interface{} `json:"details,omitempty"`
}

// OKResponse is the acknowledgement every mutating endpoint embeds
type OKResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status string `json:"status"`
}

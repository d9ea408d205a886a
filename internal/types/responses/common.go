package responses

import "encoding/json"

// ErrorResponse represents a client input error
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProviderErrorResponse carries the email provider's error entries unmodified
type ProviderErrorResponse struct {
	Error   string            `json:"error"`
	Details []json.RawMessage `json:"details"`
}

// InternalErrorResponse represents an unexpected failure
type InternalErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

package dto

// ErrorResponse is the error payload for every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(detail string) ErrorResponse {
	return ErrorResponse{Detail: detail}
}

// MessageResponse is the payload for operations that return no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the payload of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database,omitempty"`
}

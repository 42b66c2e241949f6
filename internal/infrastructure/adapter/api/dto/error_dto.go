package dto

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

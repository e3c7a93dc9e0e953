// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

package dto

import "github.com/google/uuid"

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// UserRef is the populated form of a user reference.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
}

package dto

import (
	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse represents a successful register/login response
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// ListResponse wraps a paginated collection
type ListResponse struct {
	Items  interface{} `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// UnreadCountResponse reports the number of unread notifications
type UnreadCountResponse struct {
	Count int `json:"count"`
}

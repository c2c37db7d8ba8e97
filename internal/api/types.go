package api

import (
	"time"

	"github.com/haroai/haro/usecase"
)

// StatusResponse reports the assistant's runtime state.
type StatusResponse struct {
	State      string          `json:"state"`
	Session    usecase.Summary `json:"session"`
	QueueBusy  bool            `json:"queue_busy"`
	QueueDepth int             `json:"queue_depth"`
}

// TokenRequest carries the shared secret to exchange for a console token.
type TokenRequest struct {
	Secret   string `json:"secret" validate:"required"`
	ClientID string `json:"client_id"`
}

// TokenResponse carries a minted console token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

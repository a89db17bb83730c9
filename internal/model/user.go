package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials is the payload for both register and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the login response carrying the bearer token.
type TokenResponse struct {
	Access string `json:"access"`
}

// Profile is the response of GET /auth/me.
type Profile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// HealthResponse is the response of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

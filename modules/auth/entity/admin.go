package entity

import (
	"time"

	"github.com/google/uuid"
)

// Admin is an organizer account. Password holds a bcrypt hash.
type Admin struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OAuthState is a one-time CSRF token for the Google sign-in flow.
type OAuthState struct {
	State     string    `db:"state"`
	ExpiresAt time.Time `db:"expires_at"`
}

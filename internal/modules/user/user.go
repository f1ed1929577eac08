package user

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/astrapos/astra-pos/internal/modules/auth"
)

// User is an account in the shop's directory. The PIN is stored only as a
// bcrypt hash and never serializes.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      auth.Role `json:"role"`
	PINHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound is returned when no user exists with the given id.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidPIN is returned when a PIN is not exactly four decimal digits.
	ErrInvalidPIN = errors.New("pin must be exactly four digits")
	// ErrInvalidUser is returned for otherwise malformed user data.
	ErrInvalidUser = errors.New("invalid user")
)

// Identity converts a directory record to an authenticated identity.
func (u *User) Identity() *auth.Identity {
	return &auth.Identity{ID: u.ID, Name: u.Name, Role: u.Role}
}

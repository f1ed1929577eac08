package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Role is the access tier assigned to a user. Owners have full access,
// cashiers are limited to point-of-sale operations.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleCashier Role = "cashier"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleCashier
}

// Identity is an authenticated user as seen by the rest of the system.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// State is the session authenticator's current position in its lifecycle.
type State string

const (
	// StateUninitialized means no owner exists yet; only Setup is valid.
	StateUninitialized State = "uninitialized"
	// StateAwaitingLogin means an owner exists and a PIN login is expected.
	StateAwaitingLogin State = "awaiting_login"
	// StateAuthenticated means a user is logged in.
	StateAuthenticated State = "authenticated"
)

var (
	// ErrInvalidCredentials is returned when a submitted PIN matches no user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidState is returned when an operation is not valid for the
	// session's current state, e.g. setup after an owner already exists.
	ErrInvalidState = errors.New("operation not valid in current session state")
	// ErrUnauthorized is returned by mutation entry points called without an
	// authenticated identity.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when the caller's role does not permit the
	// operation.
	ErrForbidden = errors.New("owner role required")
)

// Directory is the slice of the user directory the authenticator needs.
// FindByPIN returns (nil, nil) when no user matches the PIN.
type Directory interface {
	FindByPIN(ctx context.Context, pin string) (*Identity, error)
	HasOwner(ctx context.Context) (bool, error)
	CreateOwner(ctx context.Context, name, pin string) (*Identity, error)
}

// Service drives the login state machine and issues session tokens.
type Service interface {
	// State returns the current session state.
	State() State
	// Current returns the authenticated identity, if any.
	Current() (*Identity, bool)
	// Setup creates the first owner and authenticates as them. Only valid
	// while no owner exists.
	Setup(ctx context.Context, name, pin string) (*Identity, string, error)
	// Login authenticates a PIN. Invalid while already authenticated; a
	// mismatch leaves the state unchanged so the caller may retry without
	// limit. Before any owner exists no PIN can match, so login fails with
	// ErrInvalidCredentials rather than a state error.
	Login(ctx context.Context, pin string) (*Identity, string, error)
	// Logout discards the authenticated identity.
	Logout() error
}

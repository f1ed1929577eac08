package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/astrapos/astra-pos/internal/modules/auth"
)

// Service defines directory business logic. Administrative mutations require
// an actor with the owner role; the one exception is CreateOwner, which only
// works while the directory has no owner (the setup bootstrap).
type Service interface {
	ListUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, actor *auth.Identity, req UserRequest) (*User, error)
	UpdateUser(ctx context.Context, actor *auth.Identity, id uuid.UUID, req UserRequest) (*User, error)
	DeleteUser(ctx context.Context, actor *auth.Identity, id uuid.UUID) error

	// FindByPIN returns the first user, in creation order, whose PIN matches,
	// or (nil, nil) when none does. PIN uniqueness is not enforced; callers
	// that need unambiguous login must keep PINs distinct.
	FindByPIN(ctx context.Context, pin string) (*User, error)
	// HasOwner reports whether any user holds the owner role.
	HasOwner(ctx context.Context) (bool, error)
	// CreateOwner creates the bootstrap owner. It fails once an owner exists.
	CreateOwner(ctx context.Context, name, pin string) (*User, error)
}

// UserRequest holds the data for creating or replacing a user. The PIN is
// plaintext here and hashed before storage.
type UserRequest struct {
	Name string    `json:"name"`
	Role auth.Role `json:"role"`
	PIN  string    `json:"pin"`
}

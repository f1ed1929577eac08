package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user directory storage. List returns
// users in creation order; PIN lookup walks that order, so first-created wins
// when two users share a PIN.
type Repository interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, u *User) error
	// Update replaces the stored record with the same id wholesale.
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

package user

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/astrapos/astra-pos/internal/modules/auth"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new directory service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) CreateUser(ctx context.Context, actor *auth.Identity, req UserRequest) (*User, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

func (s *service) UpdateUser(ctx context.Context, actor *auth.Identity, id uuid.UUID, req UserRequest) (*User, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := hashPIN(req.PIN)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:        id,
		Name:      req.Name,
		Role:      req.Role,
		PINHash:   hash,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.String("user_id", u.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return u, nil
}

func (s *service) DeleteUser(ctx context.Context, actor *auth.Identity, id uuid.UUID) error {
	if err := requireOwner(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

func (s *service) FindByPIN(ctx context.Context, pin string) (*User, error) {
	if !pinPattern.MatchString(pin) {
		return nil, nil
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if bcrypt.CompareHashAndPassword([]byte(u.PINHash), []byte(pin)) == nil {
			return u, nil
		}
	}
	return nil, nil
}

func (s *service) HasOwner(ctx context.Context) (bool, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Role == auth.RoleOwner {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) CreateOwner(ctx context.Context, name, pin string) (*User, error) {
	hasOwner, err := s.HasOwner(ctx)
	if err != nil {
		return nil, err
	}
	if hasOwner {
		return nil, fmt.Errorf("owner already exists: %w", auth.ErrInvalidState)
	}
	return s.create(ctx, UserRequest{Name: name, Role: auth.RoleOwner, PIN: pin})
}

func (s *service) create(ctx context.Context, req UserRequest) (*User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	hash, err := hashPIN(req.PIN)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:        uuid.New(),
		Name:      req.Name,
		Role:      req.Role,
		PINHash:   hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

func requireOwner(actor *auth.Identity) error {
	if actor == nil {
		return auth.ErrUnauthorized
	}
	if actor.Role != auth.RoleOwner {
		return auth.ErrForbidden
	}
	return nil
}

func validate(req UserRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	}
	if !req.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, req.Role)
	}
	if !pinPattern.MatchString(req.PIN) {
		return ErrInvalidPIN
	}
	return nil
}

func hashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

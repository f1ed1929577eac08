package auth

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type service struct {
	mu        sync.Mutex
	state     State
	current   *Identity
	directory Directory
	jwtSecret []byte
	logger    *zap.Logger
}

// NewService creates a session authenticator. The initial state is derived
// from the directory: Uninitialized until the first owner exists, then
// AwaitingLogin.
func NewService(ctx context.Context, directory Directory, jwtSecret string, logger *zap.Logger) (Service, error) {
	hasOwner, err := directory.HasOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking for owner: %w", err)
	}
	state := StateUninitialized
	if hasOwner {
		state = StateAwaitingLogin
	}
	return &service{
		state:     state,
		directory: directory,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}, nil
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) Current() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	id := *s.current
	return &id, true
}

func (s *service) Setup(ctx context.Context, name, pin string) (*Identity, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return nil, "", fmt.Errorf("setup: %w", ErrInvalidState)
	}

	owner, err := s.directory.CreateOwner(ctx, name, pin)
	if err != nil {
		return nil, "", err
	}

	token, err := signToken(owner, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	s.state = StateAuthenticated
	s.current = owner
	s.logger.Info("owner created via setup", zap.String("user_id", owner.ID.String()))
	return owner, token, nil
}

func (s *service) Login(ctx context.Context, pin string) (*Identity, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthenticated {
		return nil, "", fmt.Errorf("login: %w", ErrInvalidState)
	}

	identity, err := s.directory.FindByPIN(ctx, pin)
	if err != nil {
		return nil, "", err
	}
	if identity == nil {
		s.logger.Warn("login rejected")
		return nil, "", ErrInvalidCredentials
	}

	token, err := signToken(identity, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	s.state = StateAuthenticated
	s.current = identity
	s.logger.Info("user logged in",
		zap.String("user_id", identity.ID.String()),
		zap.String("role", string(identity.Role)),
	)
	return identity, token, nil
}

func (s *service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return fmt.Errorf("logout: %w", ErrInvalidState)
	}
	s.logger.Info("user logged out", zap.String("user_id", s.current.ID.String()))
	s.state = StateAwaitingLogin
	s.current = nil
	return nil
}

package user

import (
	"context"

	"github.com/astrapos/astra-pos/internal/modules/auth"
)

// DirectoryAdapter exposes the directory service as the narrow interface the
// session authenticator depends on.
type DirectoryAdapter struct{ service Service }

func NewDirectoryAdapter(service Service) *DirectoryAdapter {
	return &DirectoryAdapter{service: service}
}

var _ auth.Directory = (*DirectoryAdapter)(nil)

func (a *DirectoryAdapter) FindByPIN(ctx context.Context, pin string) (*auth.Identity, error) {
	u, err := a.service.FindByPIN(ctx, pin)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return u.Identity(), nil
}

func (a *DirectoryAdapter) HasOwner(ctx context.Context) (bool, error) {
	return a.service.HasOwner(ctx)
}

func (a *DirectoryAdapter) CreateOwner(ctx context.Context, name, pin string) (*auth.Identity, error) {
	u, err := a.service.CreateOwner(ctx, name, pin)
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeDirectory is an in-memory Directory for state machine tests.
type fakeDirectory struct {
	users map[string]*Identity // pin -> identity
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]*Identity{}}
}

func (d *fakeDirectory) FindByPIN(ctx context.Context, pin string) (*Identity, error) {
	return d.users[pin], nil
}

func (d *fakeDirectory) HasOwner(ctx context.Context) (bool, error) {
	for _, u := range d.users {
		if u.Role == RoleOwner {
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeDirectory) CreateOwner(ctx context.Context, name, pin string) (*Identity, error) {
	if hasOwner, _ := d.HasOwner(ctx); hasOwner {
		return nil, fmt.Errorf("owner already exists: %w", ErrInvalidState)
	}
	id := &Identity{ID: uuid.New(), Name: name, Role: RoleOwner}
	d.users[pin] = id
	return id, nil
}

func newTestService(t *testing.T, directory Directory) Service {
	svc, err := NewService(context.Background(), directory, "test-secret", zaptest.NewLogger(t))
	require.NoError(t, err)
	return svc
}

func TestInitialState(t *testing.T) {
	directory := newFakeDirectory()
	svc := newTestService(t, directory)
	assert.Equal(t, StateUninitialized, svc.State())

	_, err := directory.CreateOwner(context.Background(), "Alex", "1234")
	require.NoError(t, err)

	svc = newTestService(t, directory)
	assert.Equal(t, StateAwaitingLogin, svc.State())
}

func TestLogin_BeforeAnyOwner(t *testing.T) {
	svc := newTestService(t, newFakeDirectory())

	_, _, err := svc.Login(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StateUninitialized, svc.State())
}

func TestSetup(t *testing.T) {
	svc := newTestService(t, newFakeDirectory())
	ctx := context.Background()

	identity, token, err := svc.Setup(ctx, "Alex", "1234")
	require.NoError(t, err)
	assert.Equal(t, "Alex", identity.Name)
	assert.Equal(t, RoleOwner, identity.Role)
	assert.NotEmpty(t, token)
	assert.Equal(t, StateAuthenticated, svc.State())

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, identity.ID, current.ID)
}

func TestSetup_OnlyOnce(t *testing.T) {
	svc := newTestService(t, newFakeDirectory())
	ctx := context.Background()

	_, _, err := svc.Setup(ctx, "Alex", "1234")
	require.NoError(t, err)

	_, _, err = svc.Setup(ctx, "Mallory", "5678")
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, svc.Logout())
	_, _, err = svc.Setup(ctx, "Mallory", "5678")
	assert.ErrorIs(t, err, ErrInvalidState, "setup stays unavailable after logout")
}

func TestLogin(t *testing.T) {
	directory := newFakeDirectory()
	owner, err := directory.CreateOwner(context.Background(), "Alex", "1234")
	require.NoError(t, err)
	svc := newTestService(t, directory)

	_, _, err = svc.Login(context.Background(), "0000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StateAwaitingLogin, svc.State(), "failed login keeps awaiting state for retry")

	identity, token, err := svc.Login(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, identity.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, StateAuthenticated, svc.State())

	_, _, err = svc.Login(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrInvalidState, "login while authenticated is rejected")
}

func TestLogout(t *testing.T) {
	directory := newFakeDirectory()
	_, err := directory.CreateOwner(context.Background(), "Alex", "1234")
	require.NoError(t, err)
	svc := newTestService(t, directory)

	assert.ErrorIs(t, svc.Logout(), ErrInvalidState)

	_, _, err = svc.Login(context.Background(), "1234")
	require.NoError(t, err)

	require.NoError(t, svc.Logout())
	assert.Equal(t, StateAwaitingLogin, svc.State())
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	svc := newTestService(t, newFakeDirectory())
	identity, token, err := svc.Setup(context.Background(), "Alex", "1234")
	require.NoError(t, err)

	var got *Identity
	handler := Middleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, identity.Name, got.Name)
	assert.Equal(t, identity.Role, got.Role)
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	handler := Middleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

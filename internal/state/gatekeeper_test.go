package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"platepin/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRemoteSession is a mock implementation of RemoteSession.
type MockRemoteSession struct {
	mock.Mock
}

func (m *MockRemoteSession) Register(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRemoteSession) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenResponse), args.Error(1)
}

func (m *MockRemoteSession) Profile(ctx context.Context) (*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// memoryTokenStore keeps the token in memory for tests that do not care
// about persistence details.
type memoryTokenStore struct {
	token string
}

func (s *memoryTokenStore) Load() (string, error)   { return s.token, nil }
func (s *memoryTokenStore) Save(token string) error { s.token = token; return nil }
func (s *memoryTokenStore) Clear() error            { s.token = ""; return nil }

// recordingCollection counts hydrate and clear calls.
type recordingCollection struct {
	hydrates   int
	clears     int
	hydrateErr error
}

func (c *recordingCollection) Hydrate(ctx context.Context) error {
	c.hydrates++
	return c.hydrateErr
}

func (c *recordingCollection) Clear() { c.clears++ }

func TestGatekeeper_Startup_NoToken(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	session := NewSession()
	coll := &recordingCollection{}

	g := NewGatekeeper(remote, session, &memoryTokenStore{}, zerolog.Nop(), coll)
	require.NoError(t, g.Startup(ctx))

	assert.False(t, g.IsLoggedIn())
	assert.Empty(t, session.Token())
	assert.Equal(t, 0, coll.hydrates)
	remote.AssertNotCalled(t, "Profile", mock.Anything)
}

func TestGatekeeper_Startup_RejectedTokenDemotesSilently(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	remote.On("Profile", ctx).Return(nil, &model.APIError{Status: 401, Detail: "Invalid or expired token"})
	session := NewSession()
	store := &memoryTokenStore{token: "stale-token"}
	coll := &recordingCollection{}

	g := NewGatekeeper(remote, session, store, zerolog.Nop(), coll)
	require.NoError(t, g.Startup(ctx))

	assert.False(t, g.IsLoggedIn())
	assert.Empty(t, session.Token())
	assert.Empty(t, store.token)
	assert.Equal(t, 0, coll.hydrates)
}

func TestGatekeeper_Startup_ValidTokenHydrates(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	remote.On("Profile", ctx).Return(&model.Profile{ID: uuid.New(), Email: "a@b.com"}, nil)
	session := NewSession()
	saved := &recordingCollection{}
	pantry := &recordingCollection{}

	g := NewGatekeeper(remote, session, &memoryTokenStore{token: "good-token"}, zerolog.Nop(), saved, pantry)
	require.NoError(t, g.Startup(ctx))

	assert.True(t, g.IsLoggedIn())
	assert.Equal(t, "good-token", session.Token())
	assert.Equal(t, 1, saved.hydrates)
	assert.Equal(t, 1, pantry.hydrates)
}

func TestGatekeeper_Login_StoresTokenAndHydrates(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	remote.On("Login", ctx, "a@b.com", "secret1").
		Return(&model.TokenResponse{Access: "fresh-token"}, nil)
	session := NewSession()
	store := &memoryTokenStore{}
	coll := &recordingCollection{}

	g := NewGatekeeper(remote, session, store, zerolog.Nop(), coll)
	require.NoError(t, g.Login(ctx, "a@b.com", "secret1"))

	assert.True(t, g.IsLoggedIn())
	assert.Equal(t, "fresh-token", session.Token())
	assert.Equal(t, "fresh-token", store.token)
	assert.Equal(t, 1, coll.hydrates)
}

func TestGatekeeper_Login_BadCredentials(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	apiErr := &model.APIError{Status: 401, Detail: "Invalid email or password"}
	remote.On("Login", ctx, "a@b.com", "wrong").Return(nil, apiErr)
	session := NewSession()
	coll := &recordingCollection{}

	g := NewGatekeeper(remote, session, &memoryTokenStore{}, zerolog.Nop(), coll)
	err := g.Login(ctx, "a@b.com", "wrong")

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrBadCredentials))
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.False(t, g.IsLoggedIn())
	assert.Empty(t, session.Token())
	assert.Equal(t, 0, coll.hydrates)
}

func TestGatekeeper_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	apiErr := &model.APIError{Status: 409, Detail: "Email already registered"}
	remote.On("Register", ctx, "a@b.com", "secret1").Return(nil, apiErr)
	session := NewSession()

	g := NewGatekeeper(remote, session, &memoryTokenStore{}, zerolog.Nop())
	err := g.Register(ctx, "a@b.com", "secret1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDuplicateEmail))
	assert.False(t, g.IsLoggedIn())
	remote.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestGatekeeper_Register_LogsStraightIn(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	remote.On("Register", ctx, "new@b.com", "secret1").
		Return(&model.User{ID: uuid.New(), Email: "new@b.com"}, nil)
	remote.On("Login", ctx, "new@b.com", "secret1").
		Return(&model.TokenResponse{Access: "new-token"}, nil)
	session := NewSession()

	g := NewGatekeeper(remote, session, &memoryTokenStore{}, zerolog.Nop())
	require.NoError(t, g.Register(ctx, "new@b.com", "secret1"))

	assert.True(t, g.IsLoggedIn())
	assert.Equal(t, "new-token", session.Token())
	remote.AssertExpectations(t)
}

func TestGatekeeper_Logout_ClearsEverythingAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteSession)
	remote.On("Login", ctx, "a@b.com", "secret1").
		Return(&model.TokenResponse{Access: "tok"}, nil)
	session := NewSession()
	store := &memoryTokenStore{}
	saved := &recordingCollection{}
	pantry := &recordingCollection{}

	g := NewGatekeeper(remote, session, store, zerolog.Nop(), saved, pantry)
	require.NoError(t, g.Login(ctx, "a@b.com", "secret1"))

	g.Logout()
	g.Logout()

	assert.False(t, g.IsLoggedIn())
	assert.Empty(t, session.Token())
	assert.Empty(t, store.token)
	assert.Equal(t, 2, saved.clears)
	assert.Equal(t, 2, pantry.clears)
}

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("persisted-token"))

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted-token", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

package state

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// RemoteSession is the subset of the API client the gatekeeper needs.
type RemoteSession interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
	Profile(ctx context.Context) (*model.Profile, error)
}

// Collection is hydrated once per login transition and cleared on logout.
// Both the saved-recipe reconciler and the pantry satisfy it.
type Collection interface {
	Hydrate(ctx context.Context) error
	Clear()
}

// Gatekeeper owns the login state. It is the only component that writes the
// session token, and it drives collection hydration so callers never have to
// sequence login and data loading themselves.
type Gatekeeper struct {
	remote      RemoteSession
	session     *Session
	store       TokenStore
	collections []Collection
	logger      zerolog.Logger
	loggedIn    bool
}

// NewGatekeeper wires the gatekeeper to the session it controls, the store
// the token persists in, and the collections it hydrates and clears.
func NewGatekeeper(remote RemoteSession, session *Session, store TokenStore, logger zerolog.Logger, collections ...Collection) *Gatekeeper {
	return &Gatekeeper{
		remote:      remote,
		session:     session,
		store:       store,
		collections: collections,
		logger:      logger.With().Str("component", "gatekeeper").Logger(),
	}
}

// Startup restores a persisted session, if any. A stored token is verified
// against the server before it counts as a login; a token the server rejects
// is discarded and the process starts logged out rather than failing. Only a
// hydration error after a successful verification is surfaced.
func (g *Gatekeeper) Startup(ctx context.Context) error {
	token, err := g.store.Load()
	if err != nil {
		g.logger.Warn().Err(err).Msg("could not read persisted token, starting logged out")
		return nil
	}
	if token == "" {
		return nil
	}

	g.session.set(token)
	if _, err := g.remote.Profile(ctx); err != nil {
		g.logger.Info().Err(err).Msg("persisted token rejected, starting logged out")
		g.session.clear()
		if err := g.store.Clear(); err != nil {
			g.logger.Warn().Err(err).Msg("could not clear persisted token")
		}
		return nil
	}

	g.loggedIn = true
	return g.hydrateAll(ctx)
}

// Login authenticates, persists the token, and hydrates all collections.
func (g *Gatekeeper) Login(ctx context.Context, email, password string) error {
	resp, err := g.remote.Login(ctx, email, password)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return fmt.Errorf("%w: %v", model.ErrBadCredentials, err)
		}
		return fmt.Errorf("login: %w", err)
	}

	g.session.set(resp.Access)
	if err := g.store.Save(resp.Access); err != nil {
		g.logger.Warn().Err(err).Msg("could not persist token, session will not survive restart")
	}
	g.loggedIn = true

	return g.hydrateAll(ctx)
}

// Register creates an account and logs straight into it. Registration does
// not return a token, so the follow-up login is part of the operation.
func (g *Gatekeeper) Register(ctx context.Context, email, password string) error {
	if _, err := g.remote.Register(ctx, email, password); err != nil {
		if isStatus(err, http.StatusConflict) {
			return fmt.Errorf("%w: %v", model.ErrDuplicateEmail, err)
		}
		return fmt.Errorf("register: %w", err)
	}
	return g.Login(ctx, email, password)
}

// isStatus reports whether err is a server response with the given status.
func isStatus(err error, status int) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Logout clears the session and all collections. It is purely local: no
// server call is made, and calling it while logged out is a no-op.
func (g *Gatekeeper) Logout() {
	g.session.clear()
	if err := g.store.Clear(); err != nil {
		g.logger.Warn().Err(err).Msg("could not clear persisted token")
	}
	for _, c := range g.collections {
		c.Clear()
	}
	g.loggedIn = false
}

// IsLoggedIn reports whether a verified session is active.
func (g *Gatekeeper) IsLoggedIn() bool {
	return g.loggedIn
}

func (g *Gatekeeper) hydrateAll(ctx context.Context) error {
	for _, c := range g.collections {
		if err := c.Hydrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

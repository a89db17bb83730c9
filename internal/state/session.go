// Package state holds the client-side application state: the active session,
// the saved-recipe collection, and the pantry collection. Each collection is
// mutated remote-first, so local state only ever reflects operations the
// server has accepted.
//
// The package assumes a single goroutine drives all mutations, matching a
// UI event loop. None of the collections are lock-protected.
package state

// Session is the in-memory bearer token for the current login. It implements
// client.TokenSource; an empty token means logged out.
type Session struct {
	token string
}

// NewSession returns an empty, logged-out session.
func NewSession() *Session {
	return &Session{}
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	return s.token
}

func (s *Session) set(token string) {
	s.token = token
}

func (s *Session) clear() {
	s.token = ""
}

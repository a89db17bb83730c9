package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session token across process restarts.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type fileTokenStore struct {
	path string
}

// NewFileTokenStore returns a TokenStore backed by a single file. The token
// is written with owner-only permissions.
func NewFileTokenStore(path string) TokenStore {
	return &fileTokenStore{path: path}
}

func (s *fileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token store: read %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *fileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("token store: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("token store: write %s: %w", s.path, err)
	}
	return nil
}

func (s *fileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("token store: remove %s: %w", s.path, err)
	}
	return nil
}

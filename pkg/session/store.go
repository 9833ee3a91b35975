// Package session owns the client-side session: a durable token store and
// the state machine views consult to gate access and display identity.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avantolog/avanto/pkg/domain"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store persists the session token and cached user profile as two files
// under a config directory (~/.avanto by default). Saves and clears always
// touch both entries, so a session transition never leaves one behind.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore returns a store rooted at ~/.avanto.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	return NewStore(filepath.Join(home, ".avanto")), nil
}

// Save persists the token and profile, overwriting any prior values. The
// profile is written first so a crash mid-save never yields a token without
// its profile.
func (s *Store) Save(token string, user *domain.User) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load reads the persisted session. Missing entries are not errors: an
// absent token returns ("", nil) regardless of any cached profile, and a
// missing or unreadable profile returns the token with a nil user.
func (s *Store) Load() (string, *domain.User) {
	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return "", nil
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return token, nil
	}
	var u domain.User
	if json.Unmarshal(data, &u) != nil {
		return token, nil
	}
	return token, &u
}

// Token returns the current session token, or "" when absent. Satisfies
// client.TokenSource.
func (s *Store) Token() string {
	token, _ := s.Load()
	return token
}

// Clear removes both entries unconditionally. Safe to call when already
// empty.
func (s *Store) Clear() error {
	var firstErr error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return firstErr
}

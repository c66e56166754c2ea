// Package session is the single access point for the persisted client
// session: the bearer token and the user profile, stored as two files under
// the pennywise home directory. Every part of the client that needs the
// session goes through a Store; nothing else touches these files.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/calebmoore/pennywise/pkg/domain"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store reads and writes the persisted session under dir.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Token returns the session token using precedence: env var > file > empty.
// An empty return means no session exists.
func (s *Store) Token() string {
	if tok := os.Getenv("PENNYWISE_TOKEN"); tok != "" {
		return tok
	}
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Load returns the stored session, or nil when none exists.
func (s *Store) Load() (*domain.Session, error) {
	tok := s.Token()
	if tok == "" {
		return nil, nil
	}
	sess := &domain.Session{Token: tok}
	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		if os.IsNotExist(err) {
			// Token present without a profile (e.g. env override) is still
			// a usable session.
			return sess, nil
		}
		return nil, fmt.Errorf("session: read profile: %w", err)
	}
	if err := json.Unmarshal(data, &sess.User); err != nil {
		return nil, fmt.Errorf("session: decode profile: %w", err)
	}
	return sess, nil
}

// Save persists the session. Files are private to the user.
func (s *Store) Save(sess domain.Session) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(sess.Token), 0600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	data, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("session: encode profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), data, 0600); err != nil {
		return fmt.Errorf("session: write profile: %w", err)
	}
	return nil
}

// Clear removes the stored session. Missing files are not an error, so Clear
// is safe to call on logout and on 401 teardown alike.
func (s *Store) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("session: remove %s: %w", name, err)
		}
	}
	return nil
}

// Package session owns the authentication token for the whole client.
// Every other component receives the store by injection and treats the
// token as read-only; Login, Logout and Restore are the only mutations.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by callers that require a session token
// when none is present.
var ErrNotAuthenticated = errors.New("not authenticated: run login first")

// Store holds the current credential and its derived authentication flag.
// The token is persisted verbatim to a single file so it survives process
// restarts, mirroring the one named key the web client kept in local
// storage.
type Store struct {
	mu        sync.RWMutex
	tokenFile string
	token     string
	log       *zap.Logger
}

// NewStore creates an unauthenticated store persisting to tokenFile.
func NewStore(tokenFile string, logger *zap.Logger) *Store {
	return &Store{
		tokenFile: tokenFile,
		log:       logger.Named("session"),
	}
}

// Restore attempts to load a previously persisted token. The restore is
// optimistic: the token is not re-validated server-side, so a stale
// credential surfaces as a failure on the first authenticated request.
// Persistence-layer unavailability is tolerated by staying unauthenticated.
func (s *Store) Restore() {
	raw, err := os.ReadFile(s.tokenFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("Could not read persisted session, continuing unauthenticated",
				zap.String("path", s.tokenFile), zap.Error(err))
		}
		return
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.log.Debug("Restored persisted session", zap.String("path", s.tokenFile))
}

// Login stores the token, marks the session authenticated and persists
// the token for later process restarts. A persistence failure does not
// invalidate the in-memory session; it only costs durability.
func (s *Store) Login(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to store an empty session token")
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.persist(token); err != nil {
		s.log.Warn("Session will not survive a restart: failed to persist token", zap.Error(err))
	}
	return nil
}

// Logout clears the token and its persisted copy. It is idempotent:
// calling it on an unauthenticated store has no additional effect.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := os.Remove(s.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("Failed to remove persisted token", zap.String("path", s.tokenFile), zap.Error(err))
	}
}

// Token returns the current session token, or the empty string when
// unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is present. The flag is
// derived, never stored, so it cannot disagree with the token.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) persist(token string) error {
	dir := filepath.Dir(s.tokenFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}
	if err := os.WriteFile(s.tokenFile, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Package session holds the bearer credential that proves an authenticated
// identity to the backend.
//
// The token lives in a single process-wide slot persisted to a file, the
// same role localStorage plays for a browser dashboard: written on login,
// removed on logout, read before every outgoing request. There is no
// refresh or expiry transition; an expired token is discovered reactively
// through a rejected request.
package session

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shashiranjanraj/storeadmin/config"
)

// Store is the persistent token slot. It is injected into the HTTP layer
// rather than accessed as an ambient global, so tests can swap it.
type Store interface {
	// Current returns the persisted token, or "" when logged out.
	Current() string
	// Set persists a new token (login).
	Set(token string) error
	// Clear removes the token (logout). Clearing an empty slot is a no-op.
	Clear() error
}

// ── File-backed store ────────────────────────────────────────────────────────

// FileStore persists the token in a single file so a login survives process
// restarts. Reads are served from memory after the first load.
type FileStore struct {
	path string

	mu     sync.RWMutex
	token  string
	loaded bool
}

// NewFileStore builds a store around the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Default builds a FileStore at the configured TOKEN_PATH.
func Default() *FileStore {
	return NewFileStore(config.TokenPath())
}

func (s *FileStore) Current() string {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.token
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		raw, err := os.ReadFile(s.path)
		if err == nil {
			s.token = strings.TrimSpace(string(raw))
		}
		s.loaded = true
	}
	return s.token
}

func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove token: %w", err)
	}
	return nil
}

// ── In-memory store ──────────────────────────────────────────────────────────

// MemoryStore keeps the token in memory only. Tests and short-lived embeds
// use it when persistence across processes is not wanted.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

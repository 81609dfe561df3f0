// Package session holds the authenticated session of the client. A Session is
// populated once at login, handed to every component that needs the bearer
// token, and invalidated once at logout. It is persisted as a small YAML file so
// that consecutive CLI invocations share it.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenKey is the single key under which the bearer token is stored
const TokenKey = "access_token"

// Data is the persisted session state
type Data struct {
	AccessToken string    `yaml:"access_token"`
	Email       string    `yaml:"email,omitempty"`
	StartedAt   time.Time `yaml:"started_at,omitempty"`
}

// Session is the active authenticated session. An empty path keeps it in memory only.
type Session struct {
	mutex sync.RWMutex
	path  string
	data  Data
}

// DefaultPath returns ~/.bestbefore/session.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".bestbefore", "session.yaml"), nil
}

// Open loads the session stored at path, or returns an inactive session when none exists
func Open(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	return s, nil
}

// Token returns the bearer token, or "" when no session is active
func (s *Session) Token() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data.AccessToken
}

// Active reports whether a token is held
func (s *Session) Active() bool {
	return s.Token() != ""
}

// Info returns a copy of the session state
func (s *Session) Info() Data {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data
}

// Path returns where the session is persisted ("" for in-memory sessions)
func (s *Session) Path() string {
	return s.path
}

// Begin populates the session after a successful login or registration
func (s *Session) Begin(token, email string) error {
	if token == "" {
		return errors.New("session: empty token")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data = Data{
		AccessToken: token,
		Email:       email,
		StartedAt:   time.Now().UTC(),
	}
	return s.persist()
}

// End invalidates the session and removes its file
func (s *Session) End() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data = Data{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

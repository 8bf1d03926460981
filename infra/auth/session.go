package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/CrestNiraj12/clipzy/domain"
)

const (
	tokenFile   = "token"
	refreshFile = "refresh"
	userFile    = "user"
)

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// Session holds the persisted login of the current user.
type Session struct {
	dir string

	mu    sync.RWMutex
	user  string
	token string
}

// OpenSession loads the session stored in dir.
func OpenSession(dir string) (*Session, error) {
	token, err := readTrimmed(filepath.Join(dir, tokenFile))
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("token file in %s is empty", dir)
	}
	user, err := readTrimmed(filepath.Join(dir, userFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return &Session{dir: dir, user: user, token: token}, nil
}

// User returns the logged-in username, or "" when unknown.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the bearer token. It fails after Logout.
func (s *Session) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", domain.ErrUnauthorized
	}
	return s.token, nil
}

// Logout forgets the session and removes its files.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = ""
	s.token = ""
	s.mu.Unlock()

	var errs []error
	for _, name := range []string{tokenFile, refreshFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeSession(dir, user, access, refresh string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	files := map[string]string{tokenFile: access, userFile: user}
	if refresh != "" {
		files[refreshFile] = refresh
	}
	for name, value := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(strings.TrimSpace(value)), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

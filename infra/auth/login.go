package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Credentials are the username and password used for a fresh login.
type Credentials struct {
	Username string
	Password string
}

// CredentialsFunc supplies credentials when no valid session exists,
// typically by prompting on the terminal.
type CredentialsFunc func() (Credentials, error)

type homeResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// EnsureLogin returns a valid session stored in dir. A stored token is
// validated against the backend first; otherwise credentials are exchanged
// for a new token which is persisted with 0600 permissions.
func EnsureLogin(ctx context.Context, backendURL, dir string, creds CredentialsFunc) (*Session, error) {
	if s, err := OpenSession(dir); err == nil {
		token, _ := s.AccessToken()
		user, valid, err := validateToken(ctx, backendURL, token)
		if err != nil {
			return nil, err
		}
		if valid {
			if user != "" && user != s.User() {
				if err := writeSession(dir, user, token, ""); err != nil {
					return nil, err
				}
			}
			return OpenSession(dir)
		}
	}

	if creds == nil {
		return nil, errors.New("no valid session and no credentials source")
	}
	c, err := creds()
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" || c.Password == "" {
		return nil, errors.New("username and password are required")
	}

	access, refresh, err := obtainToken(ctx, backendURL, c)
	if err != nil {
		return nil, err
	}
	if err := writeSession(dir, c.Username, access, refresh); err != nil {
		return nil, err
	}
	return OpenSession(dir)
}

func validateToken(ctx context.Context, backendURL, token string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, backendURL+"/accounts/home/", nil)
	if err != nil {
		return "", false, fmt.Errorf("creating token validation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return "", false, fmt.Errorf("validating token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", false, nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("token validation failed: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var home homeResponse
	_ = json.Unmarshal(data, &home)
	return strings.TrimSpace(home.User), true, nil
}

func obtainToken(ctx context.Context, backendURL string, c Credentials) (string, string, error) {
	body, err := json.Marshal(tokenRequest{Username: c.Username, Password: c.Password})
	if err != nil {
		return "", "", fmt.Errorf("encoding login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, backendURL+"/accounts/token/", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: 15 * time.Second}).Do(req)
	if err != nil {
		return "", "", fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading login response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return "", "", errors.New("login rejected: invalid username or password")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("login failed: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return "", "", fmt.Errorf("parsing login response: %w", err)
	}
	access := strings.TrimSpace(tr.Access)
	if access == "" {
		return "", "", errors.New("login response missing access token")
	}
	return access, strings.TrimSpace(tr.Refresh), nil
}

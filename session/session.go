// ABOUTME: Bearer credential lifecycle: XDG token storage, expiry checks, teardown
// ABOUTME: Created at startup, cleared on logout or on a 401 from the API
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Session holds the bearer credential for the active console run. Requests
// read the token at dispatch time, so replacing it affects only requests
// dispatched afterwards.
type Session struct {
	mu    sync.RWMutex
	token *oauth2.Token
	path  string
}

// TokenPath returns the XDG-compliant path for the persisted credential.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "fbconsole", "credentials.json")
}

// New creates a session backed by the default token path, loading any
// previously saved credential. A missing or unreadable file just means an
// unauthenticated session.
func New() *Session {
	s := &Session{path: TokenPath()}
	if tok, err := loadToken(s.path); err == nil {
		s.token = tok
	}
	return s
}

// NewAt creates a session backed by an explicit path; used in tests.
func NewAt(path string) *Session {
	s := &Session{path: path}
	if tok, err := loadToken(path); err == nil {
		s.token = tok
	}
	return s
}

// AccessToken returns the current bearer token, or "" when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// SetToken replaces the credential and persists it.
func (s *Session) SetToken(tok *oauth2.Token) error {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return saveToken(s.path, tok)
}

// Clear drops the credential and removes the persisted copy. Called on
// logout and by the API client's 401 handling.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
	_ = os.Remove(s.path)
}

// Authenticated reports whether a non-expired credential is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.token.Valid()
}

// ExpiresIn returns the time until the token expires, decoding the JWT exp
// claim when the token itself carries no expiry. Used only for a
// pre-emptive "please refresh" warning, never for authorization decisions.
func (s *Session) ExpiresIn() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return 0, false
	}
	expiry := s.token.Expiry
	if expiry.IsZero() {
		claims := jwt.MapClaims{}
		parser := jwt.NewParser()
		// Unverified parse: the server is the authority, we only want exp.
		if _, _, err := parser.ParseUnverified(s.token.AccessToken, claims); err != nil {
			return 0, false
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			return 0, false
		}
		expiry = exp.Time
	}
	return time.Until(expiry), true
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create credential file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &token, nil
}

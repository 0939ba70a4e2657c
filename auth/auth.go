// Package auth handles the client side of the authentication boundary: the
// credentials file on disk and a read-only probe of the bearer token. The
// probe extracts a display name and expiry for local session-validity checks
// only; authorization decisions belong to the backend.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrNotLoggedIn is returned when no credentials file exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Provider tags how an identity was established.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
)

// Identity is the opaque user handle for the signed-in user. Immutable after
// login; destroyed only by logout, which touches local state alone.
type Identity struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Provider Provider `json:"provider"`
}

// Session is the explicit session-context passed into every orchestration
// constructor. The auth commands are its only writer.
type Session struct {
	Identity    Identity
	Token       string
	DisplayName string
	// ExpiresAt is zero when the token carries no expiry claim.
	ExpiresAt time.Time
}

// Valid reports whether the session is still usable at the given instant.
func (s *Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

type credentialsFile struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Save writes the credentials file, creating parent directories as needed.
func Save(path, token string, identity Identity) error {
	raw, err := json.MarshalIndent(&credentialsFile{Token: token, Identity: identity}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling credentials")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating credentials directory")
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrap(err, "writing credentials file")
	}
	return nil
}

// Load reads the credentials file and probes the token. A missing file means
// the user is not logged in.
func Load(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading credentials file")
	}

	file := &credentialsFile{}
	if err := json.Unmarshal(raw, file); err != nil {
		return nil, errors.Wrap(err, "unmarshaling credentials file")
	}

	session := &Session{Identity: file.Identity, Token: file.Token, DisplayName: file.Identity.Username}
	if name, expiry, err := Probe(file.Token); err == nil {
		if name != "" {
			session.DisplayName = name
		}
		session.ExpiresAt = expiry
	}
	return session, nil
}

// Clear removes the credentials file. Clearing an absent file is a no-op.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing credentials file")
	}
	return nil
}

// Probe decodes the token without verifying its signature and extracts the
// display name and expiry. This is a capability probe: the backend remains
// the sole authority on whether the token is actually accepted.
func Probe(token string) (string, time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", time.Time{}, errors.Wrap(err, "decoding token")
	}

	name, _ := claims["username"].(string)
	if name == "" {
		if sub, err := claims.GetSubject(); err == nil {
			name = sub
		}
	}

	var expiry time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiry = exp.Time
	}
	return name, expiry, nil
}

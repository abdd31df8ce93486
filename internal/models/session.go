package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Identity is the simulated signed-in user of a session.
// No credentials are stored or checked.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session represents one browser session's workspace.
// Each session owns an independent copy of the course store and request tracker.
type Session struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	Identity   *Identity `json:"identity,omitempty"`
	TTLSeconds int       `json:"ttl_seconds"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Requested  int       `json:"requested"`
}

// IsAuthenticated returns true if a user signed in to the session
func (s *Session) IsAuthenticated() bool {
	return s.Identity != nil
}

// IsExpired checks if the session idle TTL has elapsed
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TimeRemaining returns the duration until expiry (0 if expired)
func (s *Session) TimeRemaining() time.Duration {
	remaining := time.Until(s.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GenerateSessionToken creates a cryptographically random 48-char hex token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSessionRequest represents a request to open a session
type CreateSessionRequest struct {
	TTL int `json:"ttl,omitempty"` // seconds, 0 = server default
}

// CreateSessionResponse is returned after opening a session
type CreateSessionResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SignInRequest is the simulated authentication payload
type SignInRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// ExtendRequest extends a session's TTL
type ExtendRequest struct {
	Seconds int `json:"seconds"`
}

// SessionFilters defines filters for listing sessions
type SessionFilters struct {
	Authenticated *bool
	Limit         int
	Offset        int
}

package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnavailable        = errors.New("authentication service unavailable")
)

// Session is an authenticated operator login.
type Session struct {
	Token      string    `json:"token"`
	OperatorID string    `json:"operator_id"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session's token has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

// Authenticator exchanges credentials for a session and ends sessions.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
}

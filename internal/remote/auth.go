package remote

import (
	"context"
	"fmt"
	"net/http"

	operatorHttp "github.com/doshub/portal-backend/internal/operator/http"
	"github.com/doshub/portal-backend/internal/session"
)

// Login exchanges operator credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	in := operatorHttp.LoginRequest{Email: email, Password: password}

	var out operatorHttp.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", in, &out); err != nil {
		switch statusOf(err) {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return nil, session.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", session.ErrUnavailable, err)
	}

	return &session.Session{
		Token:      out.AccessToken,
		OperatorID: out.Operator.ID,
		Email:      out.Operator.Email,
		ExpiresAt:  out.ExpiresAt,
	}, nil
}

// Logout revokes token on the server. A token the server no longer accepts
// is already ended and is not an error.
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, "/v1/auth/logout", token, nil, nil); err != nil {
		if statusOf(err) == http.StatusUnauthorized {
			return nil
		}
		return fmt.Errorf("%w: %w", session.ErrUnavailable, err)
	}
	return nil
}

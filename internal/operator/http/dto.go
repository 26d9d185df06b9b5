package http

import (
	"time"

	"github.com/doshub/portal-backend/internal/operator"
)

// OperatorResponse is the shape of operator data returned in API responses.
type OperatorResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// NewOperatorResponse converts operator.Operator to the API shape.
func NewOperatorResponse(op *operator.Operator) OperatorResponse {
	var lastLoginAt *time.Time
	if op.LastLoginAt != nil {
		ll := *op.LastLoginAt
		lastLoginAt = &ll
	}

	return OperatorResponse{
		ID:          op.ID,
		Email:       op.Email,
		DisplayName: op.DisplayName,
		CreatedAt:   op.CreatedAt,
		LastLoginAt: lastLoginAt,
	}
}

// LoginRequest defines the payload for operator login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token, its expiry and the operator profile.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Operator    OperatorResponse `json:"operator"`
}

// MeResponse returns the current operator.
type MeResponse struct {
	Operator OperatorResponse `json:"operator"`
}

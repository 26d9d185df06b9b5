package operator

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("operator not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveOperator   = errors.New("operator is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// Operator is a content-management account allowed to sign in to the console.
type Operator struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

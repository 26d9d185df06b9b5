package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/auth"
)

// Service defines the account operations behind console sign-in.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*Operator, error)
	Login(ctx context.Context, email, password string) (*Operator, error)
	GetByID(ctx context.Context, id string) (*Operator, error)
	// EnsureOperator creates the account unless the email is already registered.
	EnsureOperator(ctx context.Context, email, password string) error
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new operator Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*Operator, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}

	if len(password) < s.minPasswordLength {
		return nil, fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, s.minPasswordLength)
	}

	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayNamePtr *string
	if d := strings.TrimSpace(displayName); d != "" {
		displayNamePtr = &d
	}

	op := &Operator{
		Email:        cleanEmail,
		PasswordHash: hash,
		DisplayName:  displayNamePtr,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}

	return op, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Operator, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	op, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch operator by email: %w", err)
	}

	if !op.IsActive {
		return nil, ErrInactiveOperator
	}

	if err := s.hasher.Compare(op.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed bookkeeping write does not block the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, op.ID, now); err != nil {
		log.Warn().Err(err).Str("operator_id", op.ID).Msg("failed to record last login")
	} else {
		op.LastLoginAt = &now
	}

	return op, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Operator, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) EnsureOperator(ctx context.Context, email, password string) error {
	_, err := s.Register(ctx, email, password, "")
	switch {
	case err == nil:
		log.Info().Str("email", normalizeEmail(email)).Msg("bootstrap operator created")
		return nil
	case errors.Is(err, ErrEmailAlreadyUsed):
		return nil
	default:
		return fmt.Errorf("bootstrap operator: %w", err)
	}
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package operator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doshub/portal-backend/internal/auth"
)

func newTestService() Service {
	return NewService(NewMemoryRepository(), auth.NewBcryptPasswordHasher(bcrypt.MinCost))
}

func TestOperatorService(t *testing.T) {
	ctx := context.Background()

	t.Run("Register And Login: Success", func(t *testing.T) {
		svc := newTestService()
		op, err := svc.Register(ctx, "  Admin@DosHub.ph ", "barangay-2025", "Kap. Santos")
		require.NoError(t, err)
		assert.Equal(t, "admin@doshub.ph", op.Email)
		require.NotNil(t, op.DisplayName)
		assert.Equal(t, "Kap. Santos", *op.DisplayName)

		logged, err := svc.Login(ctx, "admin@doshub.ph", "barangay-2025")
		require.NoError(t, err)
		assert.Equal(t, op.ID, logged.ID)
		assert.NotNil(t, logged.LastLoginAt)
	})

	t.Run("Register: Validation", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "   ", "barangay-2025", "")
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = svc.Register(ctx, "a@b.ph", "short", "")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("Register: Duplicate Email", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "a@b.ph", "barangay-2025", "")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "A@B.ph", "barangay-2025", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("Login: Wrong Password Or Unknown Email", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "a@b.ph", "barangay-2025", "")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "a@b.ph", "nope-nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(ctx, "ghost@b.ph", "barangay-2025")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("EnsureOperator: Idempotent", func(t *testing.T) {
		svc := newTestService()
		require.NoError(t, svc.EnsureOperator(ctx, "admin@doshub.ph", "barangay-2025"))
		require.NoError(t, svc.EnsureOperator(ctx, "admin@doshub.ph", "barangay-2025"))

		_, err := svc.Login(ctx, "admin@doshub.ph", "barangay-2025")
		assert.NoError(t, err)
	})
}

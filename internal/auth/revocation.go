package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doshub/portal-backend/internal/pkg/cache"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// RevocationStore remembers signed-out tokens until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type cacheRevocationStore struct {
	cache cache.Cache
	now   func() time.Time
}

// NewCacheRevocationStore keeps revoked token ids in c with a TTL matching
// the remaining token lifetime.
func NewCacheRevocationStore(c cache.Cache) RevocationStore {
	return &cacheRevocationStore{cache: c, now: time.Now}
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (s *cacheRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// Already expired; the signature check rejects it anyway.
		return nil
	}
	if err := s.cache.Set(ctx, revokedKey(tokenID), true, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *cacheRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ok, err := s.cache.Exists(ctx, revokedKey(tokenID))
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return ok, nil
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks revoked token ids (JTI) in Redis until their
// natural expiry, so a logout invalidates the token immediately without
// any state in the token itself.
type RevocationStore struct {
	rdb *redis.Client
}

// NewRevocationStore creates a revocation store.
func NewRevocationStore(rdb *redis.Client) *RevocationStore {
	return &RevocationStore{rdb: rdb}
}

func revocationKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// Revoke marks a token id revoked for the given TTL.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

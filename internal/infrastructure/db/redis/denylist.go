package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/messagely/messagely-api/internal/core/ports"
)

// keyValue is the slice of *redis.Client the denylist uses.
type keyValue interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// Denylist records revoked token ids.
// Key format: revoked:<jti>, expiring when the token would have.
type Denylist struct {
	client keyValue
}

// NewDenylist creates a Denylist wrapping the given Redis client.
func NewDenylist(client keyValue) *Denylist {
	return &Denylist{client: client}
}

var _ ports.TokenDenylist = (*Denylist)(nil)

// Revoke marks tokenID revoked for ttl.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func (d *Denylist) key(tokenID string) string {
	return "revoked:" + tokenID
}

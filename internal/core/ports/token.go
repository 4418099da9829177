package ports

import (
	"context"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// TokenIssuer signs and parses bearer tokens.
type TokenIssuer interface {
	Issue(username string) (string, domain.Claims, error)
	// Parse validates signature and expiry. Any failure wraps domain.ErrInvalidToken.
	Parse(token string) (domain.Claims, error)
}

// TokenDenylist records revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

const defaultRevocationTTL = 30 * 24 * time.Hour

// AuthService implements registration, login, logout and token verification.
type AuthService struct {
	credentials   *CredentialStore
	tokens        ports.TokenIssuer
	denylist      ports.TokenDenylist
	revocationTTL time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// NewAuthService wires an AuthService. A nil denylist disables revocation:
// logout is accepted and tokens stay valid until they expire.
// revocationTTL bounds how long a token without an expiry stays revoked.
func NewAuthService(
	credentials *CredentialStore,
	tokens ports.TokenIssuer,
	denylist ports.TokenDenylist,
	revocationTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if denylist == nil {
		denylist = nopDenylist{}
	}
	if revocationTTL <= 0 {
		revocationTTL = defaultRevocationTTL
	}
	return &AuthService{
		credentials:   credentials,
		tokens:        tokens,
		denylist:      denylist,
		revocationTTL: revocationTTL,
		log:           log,
		now:           time.Now,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

// Register creates the account and logs it in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password required", domain.ErrValidation)
	}

	user, err := s.credentials.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("user registered")

	user.PasswordHash = ""
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials, bumps last_login_at and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", domain.ErrValidation)
	}

	user, err := s.credentials.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info().Str("username", username).Msg("login rejected")
		}
		return nil, err
	}

	at := nextLoginAt(s.now(), user.LastLoginAt)
	if err := s.credentials.TouchLogin(ctx, user.Username, at); err != nil {
		return nil, err
	}
	user.LastLoginAt = at

	token, _, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("user logged in")

	user.PasswordHash = ""
	return &ports.AuthResult{Token: token, User: user}, nil
}

// VerifyToken decodes token and rejects it when revoked.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Claims{}, err
	}

	if claims.TokenID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return domain.Claims{}, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return domain.Claims{}, fmt.Errorf("%w: token revoked", domain.ErrInvalidToken)
		}
	}
	return claims, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims domain.Claims) error {
	if claims.TokenID == "" {
		return fmt.Errorf("%w: token has no id", domain.ErrInvalidToken)
	}

	ttl := s.revocationTTL
	if !claims.ExpiresAt.IsZero() {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.log.Info().Str("username", claims.Username).Msg("user logged out")
	return nil
}

// nextLoginAt returns now at store precision, nudged past prev so that
// last_login_at strictly increases across logins.
func nextLoginAt(now, prev time.Time) time.Time {
	at := domain.Timestamp(now)
	if !at.After(prev) {
		at = domain.Timestamp(prev).Add(time.Millisecond)
	}
	return at
}

type nopDenylist struct{}

func (nopDenylist) Revoke(context.Context, string, time.Duration) error { return nil }
func (nopDenylist) IsRevoked(context.Context, string) (bool, error)    { return false, nil }

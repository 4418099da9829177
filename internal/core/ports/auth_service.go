package ports

import (
	"context"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// AuthResult is returned by a successful login or registration.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService owns the Unauthenticated → Authenticated transitions.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Logout(ctx context.Context, claims domain.Claims) error
	TokenVerifier
}

// TokenVerifier is the slice of AuthService the access-control middleware needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (domain.Claims, error)
}

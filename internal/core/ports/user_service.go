package ports

import (
	"context"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// UserService exposes read access to registered users.
type UserService interface {
	GetAll(ctx context.Context) ([]domain.UserProfile, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

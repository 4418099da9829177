package ports

import (
	"context"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// UserRepository persists users.
type UserRepository interface {
	// Create inserts user. Returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns the full record, password hash included, or domain.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// TouchLogin sets last_login_at. Returns domain.ErrUserNotFound for unknown usernames.
	TouchLogin(ctx context.Context, username string, at time.Time) error
	// List returns every user's minimal profile ordered by username.
	List(ctx context.Context) ([]domain.UserProfile, error)
}

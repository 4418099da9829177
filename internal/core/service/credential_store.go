package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

// CredentialStore hashes and verifies passwords on top of a UserRepository.
type CredentialStore struct {
	repo ports.UserRepository
	cost int
	log  zerolog.Logger
	now  func() time.Time

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewCredentialStore returns a CredentialStore hashing with the given bcrypt cost.
// Costs outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewCredentialStore(repo ports.UserRepository, cost int, log zerolog.Logger) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("messagely-unknown-user"), cost)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build dummy password hash")
	}
	return &CredentialStore{
		repo:      repo,
		cost:      cost,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}
}

var _ ports.UserService = (*CredentialStore)(nil)

// Register hashes the password and persists a new user. join_at and
// last_login_at are both set to the registration time.
func (s *CredentialStore) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", domain.ErrValidation)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := domain.Timestamp(s.now())
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		JoinedAt:     now,
		LastLoginAt:  now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Authenticate returns the stored user when password matches its hash.
// Unknown usernames and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// TouchLogin records a successful login at the given time.
func (s *CredentialStore) TouchLogin(ctx context.Context, username string, at time.Time) error {
	if err := s.repo.TouchLogin(ctx, username, at); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

// GetAll returns every user's minimal profile.
func (s *CredentialStore) GetAll(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByUsername returns the full profile without the password hash.
func (s *CredentialStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// Package memory is a process-local store used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

// Store implements both repositories over maps guarded by one RWMutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	messages map[string]domain.Message
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		messages: make(map[string]domain.Message),
	}
}

// Users returns the store as a UserRepository.
func (s *Store) Users() ports.UserRepository { return userRepo{s} }

// Messages returns the store as a MessageRepository.
func (s *Store) Messages() ports.MessageRepository { return messageRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.s.users[user.Username] = *user
	created := *user
	return &created, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) TouchLogin(_ context.Context, username string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = at
	r.s.users[username] = u
	return nil
}

func (r userRepo) List(_ context.Context) ([]domain.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.UserProfile, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u.Profile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type messageRepo struct{ s *Store }

// Create rejects messages whose sender or recipient is unknown, as the
// relational store's foreign keys do.
func (r messageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[msg.FromUsername]; !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := r.s.users[msg.ToUsername]; !ok {
		return domain.ErrUserNotFound
	}
	stored := *msg
	stored.ReadAt = nil
	r.s.messages[msg.ID] = stored
	return nil
}

func (r messageRepo) FindByID(_ context.Context, id string) (*domain.MessageDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	d := r.detail(m)
	return &d, nil
}

func (r messageRepo) MarkRead(_ context.Context, id string, at time.Time) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[id]
	if !ok {
		return time.Time{}, domain.ErrMessageNotFound
	}
	if m.ReadAt == nil {
		if at.Before(m.SentAt) {
			at = m.SentAt
		}
		m.ReadAt = &at
		r.s.messages[id] = m
	}
	return *m.ReadAt, nil
}

func (r messageRepo) ListSentBy(_ context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(func(m domain.Message) bool { return m.FromUsername == username }), nil
}

func (r messageRepo) ListReceivedBy(_ context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(func(m domain.Message) bool { return m.ToUsername == username }), nil
}

func (r messageRepo) list(match func(domain.Message) bool) []domain.MessageDetail {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []domain.Message{}
	for _, m := range r.s.messages {
		if match(m) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].SentAt.Equal(matched[j].SentAt) {
			return matched[i].SentAt.Before(matched[j].SentAt)
		}
		return matched[i].ID < matched[j].ID
	})

	out := make([]domain.MessageDetail, 0, len(matched))
	for _, m := range matched {
		out = append(out, r.detail(m))
	}
	return out
}

// detail must be called with the lock held.
func (r messageRepo) detail(m domain.Message) domain.MessageDetail {
	d := domain.MessageDetail{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		FromUser: r.s.users[m.FromUsername].Profile(),
		ToUser:   r.s.users[m.ToUsername].Profile(),
	}
	if m.ReadAt != nil {
		readAt := *m.ReadAt
		d.ReadAt = &readAt
	}
	return d
}

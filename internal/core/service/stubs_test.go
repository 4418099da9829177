package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Username] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) TouchLogin(_ context.Context, username string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = at
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.UserProfile, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Profile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type stubMessageRepo struct {
	mu       sync.Mutex
	users    *stubUserRepo
	messages []*domain.Message
	marks    int
}

func newStubMessageRepo(users *stubUserRepo) *stubMessageRepo {
	return &stubMessageRepo{users: users}
}

func (r *stubMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *msg
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *stubMessageRepo) detail(m *domain.Message) domain.MessageDetail {
	from, _ := r.users.FindByUsername(context.Background(), m.FromUsername)
	to, _ := r.users.FindByUsername(context.Background(), m.ToUsername)
	d := domain.MessageDetail{ID: m.ID, Body: m.Body, SentAt: m.SentAt}
	if m.ReadAt != nil {
		readAt := *m.ReadAt
		d.ReadAt = &readAt
	}
	if from != nil {
		d.FromUser = from.Profile()
	}
	if to != nil {
		d.ToUser = to.Profile()
	}
	return d
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.MessageDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			d := r.detail(m)
			return &d, nil
		}
	}
	return nil, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) MarkRead(_ context.Context, id string, at time.Time) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			r.marks++
			if m.ReadAt == nil {
				m.ReadAt = &at
			}
			return *m.ReadAt, nil
		}
	}
	return time.Time{}, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) list(match func(*domain.Message) bool) []domain.MessageDetail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.MessageDetail{}
	for _, m := range r.messages {
		if match(m) {
			out = append(out, r.detail(m))
		}
	}
	return out
}

func (r *stubMessageRepo) ListSentBy(_ context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(func(m *domain.Message) bool { return m.FromUsername == username }), nil
}

func (r *stubMessageRepo) ListReceivedBy(_ context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(func(m *domain.Message) bool { return m.ToUsername == username }), nil
}

// stubTokens issues opaque "token:<username>:<n>" strings.
type stubTokens struct {
	n         int
	expiresAt time.Time
}

func (s *stubTokens) Issue(username string) (string, domain.Claims, error) {
	s.n++
	jti := username + "-" + string(rune('a'+s.n))
	claims := domain.Claims{Username: username, TokenID: jti, IssuedAt: time.Now(), ExpiresAt: s.expiresAt}
	return "token:" + username + ":" + jti, claims, nil
}

func (s *stubTokens) Parse(token string) (domain.Claims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	return domain.Claims{Username: parts[1], TokenID: parts[2], ExpiresAt: s.expiresAt}, nil
}

type stubDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

var errStoreDown = errors.New("store down")

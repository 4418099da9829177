package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	handler := NewUserHandler(&stubUserService{
		getAllFn: func(context.Context) ([]domain.UserProfile, error) {
			return []domain.UserProfile{{Username: "alice"}, {Username: "bob"}}, nil
		},
	}, &stubMessageService{})

	c, rec := newContext(e, http.MethodGet, "/users", "", "alice")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp usersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Users) != 2 || resp.Users[1].Username != "bob" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Get_OmitsPasswordHash(t *testing.T) {
	e := newTestEcho()
	handler := NewUserHandler(&stubUserService{
		getFn: func(_ context.Context, username string) (*domain.User, error) {
			return &domain.User{
				Username:     username,
				PasswordHash: "$2a$10$secret",
				FirstName:    "Alice",
				JoinedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}, &stubMessageService{})

	c, rec := newContext(e, http.MethodGet, "/users/alice", "", "alice")
	c.SetParamNames("username")
	c.SetParamValues("alice")
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
	var resp map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["user"]["username"] != "alice" || resp["user"]["join_at"] == nil {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	handler := NewUserHandler(&stubUserService{
		getFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}, &stubMessageService{})

	c, _ := newContext(e, http.MethodGet, "/users/ghost", "", "ghost")
	c.SetParamNames("username")
	c.SetParamValues("ghost")
	if err := handler.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Mailboxes(t *testing.T) {
	msgs := []domain.MessageDetail{{
		ID:       "m1",
		Body:     "hi",
		SentAt:   sentAt,
		FromUser: domain.UserProfile{Username: "alice"},
		ToUser:   domain.UserProfile{Username: "bob"},
	}}
	svc := &stubMessageService{
		listReceivedFn: func(_ context.Context, username string) ([]domain.MessageDetail, error) {
			if username != "bob" {
				t.Fatalf("unexpected username %q", username)
			}
			return msgs, nil
		},
		listSentFn: func(_ context.Context, username string) ([]domain.MessageDetail, error) {
			if username != "alice" {
				t.Fatalf("unexpected username %q", username)
			}
			return nil, nil
		},
	}
	e := newTestEcho()
	handler := NewUserHandler(&stubUserService{}, svc)

	c, rec := newContext(e, http.MethodGet, "/users/bob/to", "", "bob")
	c.SetParamNames("username")
	c.SetParamValues("bob")
	if err := handler.Received(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var inbox map[string][]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &inbox); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	item := inbox["messages"][0]
	if item["id"] != "m1" || item["read_at"] != nil {
		t.Fatalf("unexpected inbox item: %v", item)
	}
	if _, ok := item["to_user"]; ok {
		t.Fatalf("inbox item must not repeat the recipient")
	}

	c, rec = newContext(e, http.MethodGet, "/users/alice/from", "", "alice")
	c.SetParamNames("username")
	c.SetParamValues("alice")
	if err := handler.Sent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"messages":[]}` {
		t.Fatalf("expected empty list, got %s", got)
	}
}

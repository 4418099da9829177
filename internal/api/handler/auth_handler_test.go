package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Username != "alice" || in.Password != "secret" || in.FirstName != "Alice" || in.Phone != "+1555" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{Token: "tok", User: &domain.User{Username: in.Username}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"secret","first_name":"Alice","last_name":"Liddell","phone":"+1555"}`, "")
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Username != "alice" || resp.Token != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	cases := map[string]string{
		"missing password": `{"username":"alice"}`,
		"reserved char":    `{"username":"a/b","password":"secret"}`,
		"long username":    `{"username":"` + strings.Repeat("a", 65) + `","password":"secret"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			called := false
			handler := NewAuthHandler(&stubAuthService{
				registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
					called = true
					return nil, nil
				},
			})

			c, _ := newContext(e, http.MethodPost, "/auth/register", body, "")
			err := handler.Register(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if called {
				t.Fatalf("service must not be called on invalid input")
			}
		})
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	})

	c, _ := newContext(e, http.MethodPost, "/auth/register", `{"username":"alice","password":"secret"}`, "")
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_BadJSON(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(e, http.MethodPost, "/auth/register", `{"username":`, "")
	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.AuthResult, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return &ports.AuthResult{Token: "tok", User: &domain.User{Username: username}}, nil
		},
	})

	c, rec := newContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`, "")
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Logged in!" || resp.Token != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`, "")
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var revoked domain.Claims
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, claims domain.Claims) error {
			revoked = claims
			return nil
		},
	})

	c, rec := newContext(e, http.MethodPost, "/auth/logout", "", "alice")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked.Username != "alice" || revoked.TokenID != "jti-alice" {
		t.Fatalf("unexpected claims revoked: %+v", revoked)
	}
}

func TestAuthHandler_Logout_NoClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(e, http.MethodPost, "/auth/logout", "", "")
	err := handler.Logout(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestResultLabel(t *testing.T) {
	tests := map[string]error{
		"success":      nil,
		"invalid":      domain.ErrValidation,
		"unauthorized": domain.ErrInvalidCredentials,
		"conflict":     domain.ErrUserExists,
		"error":        errors.New("boom"),
	}
	for want, err := range tests {
		if got := resultLabel(err); got != want {
			t.Fatalf("resultLabel(%v) = %q, want %q", err, got, want)
		}
	}
}

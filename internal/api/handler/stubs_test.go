package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messagely-api/internal/api/middleware"
	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	logoutFn   func(ctx context.Context, claims domain.Claims) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims domain.Claims) error {
	return s.logoutFn(ctx, claims)
}

func (s *stubAuthService) VerifyToken(context.Context, string) (domain.Claims, error) {
	return domain.Claims{}, domain.ErrInvalidToken
}

type stubMessageService struct {
	sendFn         func(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error)
	viewFn         func(ctx context.Context, id, requester string) (*domain.MessageDetail, error)
	markReadFn     func(ctx context.Context, id, requester string) (*ports.ReadReceipt, error)
	listSentFn     func(ctx context.Context, username string) ([]domain.MessageDetail, error)
	listReceivedFn func(ctx context.Context, username string) ([]domain.MessageDetail, error)
}

func (s *stubMessageService) Send(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error) {
	return s.sendFn(ctx, in)
}

func (s *stubMessageService) View(ctx context.Context, id, requester string) (*domain.MessageDetail, error) {
	return s.viewFn(ctx, id, requester)
}

func (s *stubMessageService) MarkRead(ctx context.Context, id, requester string) (*ports.ReadReceipt, error) {
	return s.markReadFn(ctx, id, requester)
}

func (s *stubMessageService) ListSent(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	return s.listSentFn(ctx, username)
}

func (s *stubMessageService) ListReceived(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	return s.listReceivedFn(ctx, username)
}

type stubUserService struct {
	getAllFn func(ctx context.Context) ([]domain.UserProfile, error)
	getFn    func(ctx context.Context, username string) (*domain.User, error)
}

func (s *stubUserService) GetAll(ctx context.Context) ([]domain.UserProfile, error) {
	return s.getAllFn(ctx)
}

func (s *stubUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getFn(ctx, username)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context. A non-empty caller is injected the way
// RequireAuth does it.
func newContext(e *echo.Echo, method, target, body, caller string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != "" {
		claims := domain.Claims{Username: caller, TokenID: "jti-" + caller}
		c.Set(middleware.ContextUsername, caller)
		c.Set(middleware.ContextClaims, claims)
	}
	return c, rec
}

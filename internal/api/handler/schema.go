package handler

import (
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// --- Requests ---

type registerRequest struct {
	Username  string `json:"username"   validate:"required,max=64,excludesall=/?#"`
	Password  string `json:"password"   validate:"required,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
	Phone     string `json:"phone"      validate:"max=32"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sendMessageRequest struct {
	ToUsername string `json:"to_username" validate:"required"`
	Body       string `json:"body"        validate:"required,max=10000"`
}

// --- Responses ---

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type registerResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type messageDetail struct {
	ID       string             `json:"id"`
	Body     string             `json:"body"`
	SentAt   time.Time          `json:"sent_at"`
	ReadAt   *time.Time         `json:"read_at"`
	FromUser domain.UserProfile `json:"from_user"`
	ToUser   domain.UserProfile `json:"to_user"`
}

type messageDetailResponse struct {
	Message messageDetail `json:"message"`
}

type sentMessage struct {
	ID           string    `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

type sentMessageResponse struct {
	Message sentMessage `json:"message"`
}

type readReceipt struct {
	ID     string    `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

type readReceiptResponse struct {
	Message readReceipt `json:"message"`
}

type usersResponse struct {
	Users []domain.UserProfile `json:"users"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// inboxItem is a received message; the recipient is implied by the URL.
type inboxItem struct {
	ID       string             `json:"id"`
	FromUser domain.UserProfile `json:"from_user"`
	Body     string             `json:"body"`
	SentAt   time.Time          `json:"sent_at"`
	ReadAt   *time.Time         `json:"read_at"`
}

// outboxItem is a sent message; the sender is implied by the URL.
type outboxItem struct {
	ID     string             `json:"id"`
	ToUser domain.UserProfile `json:"to_user"`
	Body   string             `json:"body"`
	SentAt time.Time          `json:"sent_at"`
	ReadAt *time.Time         `json:"read_at"`
}

type inboxResponse struct {
	Messages []inboxItem `json:"messages"`
}

type outboxResponse struct {
	Messages []outboxItem `json:"messages"`
}

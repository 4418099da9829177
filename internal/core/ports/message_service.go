package ports

import (
	"context"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// SendMessageInput carries a new message from the authenticated caller.
type SendMessageInput struct {
	FromUsername string
	ToUsername   string
	Body         string
}

// ReadReceipt is the result of marking a message read.
type ReadReceipt struct {
	ID     string
	ReadAt time.Time
}

// MessageService enforces message ownership rules. requester is always the
// authenticated caller's username.
type MessageService interface {
	Send(ctx context.Context, in SendMessageInput) (*domain.Message, error)
	View(ctx context.Context, id, requester string) (*domain.MessageDetail, error)
	MarkRead(ctx context.Context, id, requester string) (*ReadReceipt, error)
	ListSent(ctx context.Context, username string) ([]domain.MessageDetail, error)
	ListReceived(ctx context.Context, username string) ([]domain.MessageDetail, error)
}

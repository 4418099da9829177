package ports

import (
	"context"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
)

// MessageRepository persists messages. Listings are ordered by sent_at, then id.
type MessageRepository interface {
	// Create inserts msg. Returns domain.ErrUserNotFound when either party does not exist
	// and the store can tell (foreign keys).
	Create(ctx context.Context, msg *domain.Message) error
	// FindByID returns the message with both parties' profiles, or domain.ErrMessageNotFound.
	FindByID(ctx context.Context, id string) (*domain.MessageDetail, error)
	// MarkRead sets read_at to at unless already set, and returns the stored read_at.
	MarkRead(ctx context.Context, id string, at time.Time) (time.Time, error)
	ListSentBy(ctx context.Context, username string) ([]domain.MessageDetail, error)
	ListReceivedBy(ctx context.Context, username string) ([]domain.MessageDetail, error)
}

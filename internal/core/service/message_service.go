package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
	"github.com/messagely/messagely-api/internal/metrics"
)

// MessageService owns every ownership rule on messages.
type MessageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, logger zerolog.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

var _ ports.MessageService = (*MessageService)(nil)

// Send stores a message from the authenticated caller to in.ToUsername.
func (s *MessageService) Send(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error) {
	in.ToUsername = strings.TrimSpace(in.ToUsername)
	if in.ToUsername == "" {
		return nil, fmt.Errorf("%w: to_username is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", domain.ErrValidation)
	}

	for _, username := range []string{in.FromUsername, in.ToUsername} {
		if _, err := s.users.FindByUsername(ctx, username); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("send message to %q: %w", username, err)
			}
			return nil, fmt.Errorf("send message: lookup %q: %w", username, err)
		}
	}

	msg := &domain.Message{
		ID:           s.newID(),
		FromUsername: in.FromUsername,
		ToUsername:   in.ToUsername,
		Body:         in.Body,
		SentAt:       domain.Timestamp(s.now()),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("from", in.FromUsername).Str("to", in.ToUsername).Msg("failed to create message")
		return nil, fmt.Errorf("send message: %w", err)
	}

	metrics.MessagesSentTotal.Inc()
	s.logger.Info().Str("message_id", msg.ID).Str("from", msg.FromUsername).Str("to", msg.ToUsername).Msg("message sent")
	return msg, nil
}

// View returns the message when requester is its sender or recipient.
func (s *MessageService) View(ctx context.Context, id, requester string) (*domain.MessageDetail, error) {
	msg, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.IsParticipant(requester) {
		return nil, domain.ErrForbidden
	}
	return msg, nil
}

// MarkRead marks the message read on behalf of its recipient. Marking an
// already-read message returns the original read_at.
func (s *MessageService) MarkRead(ctx context.Context, id, requester string) (*ports.ReadReceipt, error) {
	msg, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.IsRecipient(requester) {
		return nil, domain.ErrForbidden
	}
	if msg.ReadAt != nil {
		metrics.MessagesReadTotal.Inc()
		return &ports.ReadReceipt{ID: msg.ID, ReadAt: *msg.ReadAt}, nil
	}

	readAt, err := s.messages.MarkRead(ctx, msg.ID, domain.Timestamp(s.now()))
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mark read: %w", err)
	}

	metrics.MessagesReadTotal.Inc()
	s.logger.Info().Str("message_id", msg.ID).Str("by", requester).Msg("message read")
	return &ports.ReadReceipt{ID: msg.ID, ReadAt: readAt}, nil
}

// ListSent returns messages sent by username, oldest first.
func (s *MessageService) ListSent(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	msgs, err := s.messages.ListSentBy(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list sent messages: %w", err)
	}
	return msgs, nil
}

// ListReceived returns messages received by username, oldest first.
func (s *MessageService) ListReceived(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	msgs, err := s.messages.ListReceivedBy(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list received messages: %w", err)
	}
	return msgs, nil
}

// find treats malformed ids as unknown ones.
func (s *MessageService) find(ctx context.Context, id string) (*domain.MessageDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrMessageNotFound
	}
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

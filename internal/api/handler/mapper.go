package handler

import (
	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
}

// --- Domain → Response ---

func toMessageDetail(m *domain.MessageDetail) messageDetail {
	return messageDetail{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		ReadAt:   m.ReadAt,
		FromUser: m.FromUser,
		ToUser:   m.ToUser,
	}
}

func toSentMessage(m *domain.Message) sentMessage {
	return sentMessage{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt,
	}
}

func toInbox(msgs []domain.MessageDetail) []inboxItem {
	out := make([]inboxItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, inboxItem{ID: m.ID, FromUser: m.FromUser, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
	}
	return out
}

func toOutbox(msgs []domain.MessageDetail) []outboxItem {
	out := make([]outboxItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, outboxItem{ID: m.ID, ToUser: m.ToUser, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
	}
	return out
}

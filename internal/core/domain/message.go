package domain

import "time"

// Message is a direct message between two users.
// ReadAt is nil until the recipient marks the message as read.
type Message struct {
	ID           string     `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// MessageDetail is a message with both parties' profiles joined.
type MessageDetail struct {
	ID       string
	Body     string
	SentAt   time.Time
	ReadAt   *time.Time
	FromUser UserProfile
	ToUser   UserProfile
}

// IsParticipant reports whether username sent or received the message.
func (m MessageDetail) IsParticipant(username string) bool {
	return m.FromUser.Username == username || m.ToUser.Username == username
}

// IsRecipient reports whether username is the message's recipient.
func (m MessageDetail) IsRecipient(username string) bool {
	return m.ToUser.Username == username
}

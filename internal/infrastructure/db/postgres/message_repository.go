package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

const selectMessageDetail = `SELECT m.id, m.body, m.sent_at, m.read_at,
		        f.username, f.first_name, f.last_name, f.phone,
		        t.username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		 JOIN users AS f ON f.username = m.from_username
		 JOIN users AS t ON t.username = m.to_username
		 `

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

var _ ports.MessageRepository = (*MessageRepository)(nil)

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query :=
		`INSERT INTO messages (id, from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.FromUsername, msg.ToUsername, msg.Body, msg.SentAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.MessageDetail, error) {
	query := selectMessageDetail + `WHERE m.id = $1
		 `

	msg, err := scanDetail(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &msg, nil
}

// MarkRead keeps an existing read_at and never stores one before sent_at.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (time.Time, error) {
	query :=
		`UPDATE messages SET read_at = COALESCE(read_at, GREATEST(sent_at, $2))
		 WHERE id = $1
		 RETURNING read_at
		 `

	var readAt time.Time
	if err := r.db.QueryRowContext(ctx, query, id, at).Scan(&readAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, domain.ErrMessageNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return domain.Timestamp(readAt), nil
}

func (r *MessageRepository) ListSentBy(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(ctx, selectMessageDetail+`WHERE m.from_username = $1
		 ORDER BY m.sent_at, m.id
		 `, username)
}

func (r *MessageRepository) ListReceivedBy(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(ctx, selectMessageDetail+`WHERE m.to_username = $1
		 ORDER BY m.sent_at, m.id
		 `, username)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.MessageDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	msgs := []domain.MessageDetail{}
	for rows.Next() {
		msg, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msgs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetail(row rowScanner) (domain.MessageDetail, error) {
	var (
		msg    domain.MessageDetail
		readAt sql.NullTime
	)
	err := row.Scan(
		&msg.ID, &msg.Body, &msg.SentAt, &readAt,
		&msg.FromUser.Username, &msg.FromUser.FirstName, &msg.FromUser.LastName, &msg.FromUser.Phone,
		&msg.ToUser.Username, &msg.ToUser.FirstName, &msg.ToUser.LastName, &msg.ToUser.Phone,
	)
	if err != nil {
		return domain.MessageDetail{}, err
	}
	msg.SentAt = domain.Timestamp(msg.SentAt)
	if readAt.Valid {
		t := domain.Timestamp(readAt.Time)
		msg.ReadAt = &t
	}
	return msg, nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/messagely/messagely-api/internal/core/domain"
	"github.com/messagely/messagely-api/internal/core/ports"
)

const collectionMessages = "messages"

// MessageRepository stores messages and joins sender and recipient profiles
// from the users collection.
type MessageRepository struct {
	col   *mongo.Collection
	users *UserRepository
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		col:   db.Collection(collectionMessages),
		users: NewUserRepository(db),
	}
}

var _ ports.MessageRepository = (*MessageRepository)(nil)

type mongoMessage struct {
	ID           string `bson:"_id"`
	FromUsername string `bson:"from_username"`
	ToUsername   string `bson:"to_username"`
	Body         string `bson:"body"`
	SentAt       int64  `bson:"sent_at"`
	ReadAt       *int64 `bson:"read_at"`
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMessage{
		ID:           msg.ID,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Body:         msg.Body,
		SentAt:       msg.SentAt.UnixMilli(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.MessageDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.findDoc(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := r.withProfiles(ctx, []mongoMessage{*doc})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// MarkRead sets read_at only while it is still null, clamped to sent_at.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.findDoc(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	if doc.ReadAt != nil {
		return millisToTime(*doc.ReadAt), nil
	}

	readAt := at.UnixMilli()
	if readAt < doc.SentAt {
		readAt = doc.SentAt
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "read_at": nil},
		bson.M{"$set": bson.M{"read_at": readAt}},
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("mark read: %w", err)
	}
	if res.MatchedCount == 0 {
		// lost a race with another reader; report what they stored
		doc, err = r.findDoc(ctx, id)
		if err != nil {
			return time.Time{}, err
		}
		if doc.ReadAt != nil {
			return millisToTime(*doc.ReadAt), nil
		}
		return time.Time{}, domain.ErrMessageNotFound
	}
	return millisToTime(readAt), nil
}

func (r *MessageRepository) ListSentBy(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(ctx, bson.M{"from_username": username})
}

func (r *MessageRepository) ListReceivedBy(ctx context.Context, username string) ([]domain.MessageDetail, error) {
	return r.list(ctx, bson.M{"to_username": username})
}

// EnsureIndexes creates the listing indexes on the messages collection.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "from_username", Value: 1}, {Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "to_username", Value: 1}, {Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MessageRepository) findDoc(ctx context.Context, id string) (*mongoMessage, error) {
	var doc mongoMessage
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return &doc, nil
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M) ([]domain.MessageDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if len(docs) == 0 {
		return []domain.MessageDetail{}, nil
	}
	return r.withProfiles(ctx, docs)
}

func (r *MessageRepository) withProfiles(ctx context.Context, docs []mongoMessage) ([]domain.MessageDetail, error) {
	seen := make(map[string]struct{})
	var names []string
	for _, d := range docs {
		for _, name := range []string{d.FromUsername, d.ToUsername} {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	profiles, err := r.users.profiles(ctx, names)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MessageDetail, 0, len(docs))
	for _, d := range docs {
		detail := domain.MessageDetail{
			ID:       d.ID,
			Body:     d.Body,
			SentAt:   millisToTime(d.SentAt),
			FromUser: profileOrName(profiles, d.FromUsername),
			ToUser:   profileOrName(profiles, d.ToUsername),
		}
		if d.ReadAt != nil {
			t := millisToTime(*d.ReadAt)
			detail.ReadAt = &t
		}
		out = append(out, detail)
	}
	return out, nil
}

func profileOrName(profiles map[string]domain.UserProfile, username string) domain.UserProfile {
	if p, ok := profiles[username]; ok {
		return p
	}
	return domain.UserProfile{Username: username}
}

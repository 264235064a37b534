package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AmityTek/chat-node-next/internal/domain"
)

const messageCollection = "messages"

// MessageRepository handles database operations for chat messages.
type MessageRepository struct {
	DB *mongo.Database
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) collection() *mongo.Collection {
	return r.DB.Collection(messageCollection)
}

// storageErr wraps driver failures so callers can recognize an
// unreachable store without depending on driver error types.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}

// Create inserts a new message, assigning its id and creation time.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()

	if _, err := r.collection().InsertOne(ctx, msg); err != nil {
		return nil, storageErr("insert message", err)
	}
	return msg, nil
}

// FindByID retrieves a single message by id.
func (r *MessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	var msg domain.Message
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("find message", err)
	}
	return &msg, nil
}

// FindRecent retrieves the most recent messages for a room, newest
// first, with every replyTo reference expanded. Referenced messages are
// fetched in one batch; a referent that no longer exists resolves to an
// unavailable marker.
func (r *MessageRepository) FindRecent(ctx context.Context, room string, limit int64) ([]domain.ResolvedMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.M{"room": room}, opts)
	if err != nil {
		return nil, storageErr("find recent", err)
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, storageErr("decode recent", err)
	}

	refIDs := make([]primitive.ObjectID, 0, len(messages))
	for _, m := range messages {
		if m.ReplyTo != nil {
			refIDs = append(refIDs, *m.ReplyTo)
		}
	}

	refs := make(map[primitive.ObjectID]domain.Message, len(refIDs))
	if len(refIDs) > 0 {
		refCursor, err := r.collection().Find(ctx, bson.M{"_id": bson.M{"$in": refIDs}})
		if err != nil {
			return nil, storageErr("find referenced", err)
		}
		defer refCursor.Close(ctx)

		var referenced []domain.Message
		if err := refCursor.All(ctx, &referenced); err != nil {
			return nil, storageErr("decode referenced", err)
		}
		for _, m := range referenced {
			refs[m.ID] = m
		}
	}

	resolved := make([]domain.ResolvedMessage, 0, len(messages))
	for _, m := range messages {
		rm := m.Resolved()
		if m.ReplyTo != nil {
			if ref, ok := refs[*m.ReplyTo]; ok {
				rm.ReplyTo = &domain.ReplyRef{ID: ref.ID, Author: ref.Author, Body: ref.Body}
			} else {
				rm.ReplyTo = &domain.ReplyRef{ID: *m.ReplyTo, Unavailable: true}
			}
		}
		resolved = append(resolved, rm)
	}
	return resolved, nil
}

// UpdateBody replaces a message's body in place, preserving its id,
// room, and replyTo, and returns the updated record.
func (r *MessageRepository) UpdateBody(ctx context.Context, id primitive.ObjectID, newBody string) (*domain.Message, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg domain.Message
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"message": newBody}},
		opts,
	).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("update message", err)
	}
	return &msg, nil
}

// Delete physically removes a message and returns the deleted record so
// callers can learn its room for the deletion broadcast.
func (r *MessageRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	var msg domain.Message
	err := r.collection().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("delete message", err)
	}
	return &msg, nil
}

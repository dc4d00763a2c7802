package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erfrost/playreal-backend/internal/models"
)

type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) (*models.Message, error)
	ListByChat(ctx context.Context, chatID primitive.ObjectID) ([]*models.Message, error)
	// FindUnread returns messages in a chat addressed to recipientID that
	// have not been read yet.
	FindUnread(ctx context.Context, chatID, recipientID primitive.ObjectID) ([]*models.Message, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
}

type messageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	coll := db.Collection(ColMessages)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("chat_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &messageRepo{coll: coll}
}

func (r *messageRepo) Insert(ctx context.Context, m *models.Message) (*models.Message, error) {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return m, nil
}

func (r *messageRepo) ListByChat(ctx context.Context, chatID primitive.ObjectID) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *messageRepo) FindUnread(ctx context.Context, chatID, recipientID primitive.ObjectID) ([]*models.Message, error) {
	filter := bson.M{"chat_id": chatID, "recipient_id": recipientID, "is_read": false}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *messageRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erfrost/playreal-backend/internal/models"
)

type SupportRepository interface {
	FindConversationByUser(ctx context.Context, userID primitive.ObjectID) (*models.SupportConversation, error)
	CreateConversation(ctx context.Context, c *models.SupportConversation) error
	SetLastMessage(ctx context.Context, id primitive.ObjectID, text string) error
	InsertMessage(ctx context.Context, m *models.SupportMessage) (*models.SupportMessage, error)
	ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*models.SupportMessage, error)
}

type supportRepo struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

func NewSupportRepository(db *mongo.Database) SupportRepository {
	convColl := db.Collection(ColSupportChats)
	msgColl := db.Collection(ColSupportMessages)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_idx"),
	}
	_, _ = convColl.Indexes().CreateOne(context.Background(), idx)
	return &supportRepo{convColl: convColl, msgColl: msgColl}
}

func (r *supportRepo) FindConversationByUser(ctx context.Context, userID primitive.ObjectID) (*models.SupportConversation, error) {
	var c models.SupportConversation
	if err := r.convColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *supportRepo) CreateConversation(ctx context.Context, c *models.SupportConversation) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := r.convColl.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *supportRepo) SetLastMessage(ctx context.Context, id primitive.ObjectID, text string) error {
	update := bson.M{"$set": bson.M{"last_message": text, "updated_at": time.Now().UTC()}}
	res, err := r.convColl.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *supportRepo) InsertMessage(ctx context.Context, m *models.SupportMessage) (*models.SupportMessage, error) {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	res, err := r.msgColl.InsertOne(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return m, nil
}

func (r *supportRepo) ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*models.SupportMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.msgColl.Find(ctx, bson.M{"support_chat_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.SupportMessage
	for cur.Next(ctx) {
		var m models.SupportMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

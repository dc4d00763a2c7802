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

type ConversationRepository interface {
	Create(ctx context.Context, c *models.Conversation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	// FindByUsers resolves the single conversation shared by the unordered
	// pair (a, b).
	FindByUsers(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error)
	SetLastMessage(ctx context.Context, id primitive.ObjectID, text string) error
	Save(ctx context.Context, c *models.Conversation) error
}

type conversationRepo struct {
	coll *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) ConversationRepository {
	coll := db.Collection(ColConversations)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "users", Value: 1}},
		Options: options.Index().SetName("users_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &conversationRepo{coll: coll}
}

func (r *conversationRepo) Create(ctx context.Context, c *models.Conversation) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *conversationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) FindByUsers(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	var c models.Conversation
	filter := bson.M{"users": bson.M{"$all": bson.A{a, b}}}
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"users": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Conversation
	for cur.Next(ctx) {
		var c models.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (r *conversationRepo) SetLastMessage(ctx context.Context, id primitive.ObjectID, text string) error {
	update := bson.M{"$set": bson.M{"last_message": text, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *conversationRepo) Save(ctx context.Context, c *models.Conversation) error {
	c.UpdatedAt = time.Now().UTC()
	_, err := r.coll.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{
		"last_message":          c.LastMessage,
		"unread_messages_count": c.UnreadCount,
		"updated_at":            c.UpdatedAt,
	}})
	return err
}

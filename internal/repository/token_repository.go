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

type TokenRepository interface {
	// Upsert stores the user's refresh token, replacing any previous one.
	Upsert(ctx context.Context, userID primitive.ObjectID, refreshToken string) error
	FindByToken(ctx context.Context, refreshToken string) (*models.RefreshToken, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type tokenRepo struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) TokenRepository {
	coll := db.Collection(ColTokens)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &tokenRepo{coll: coll}
}

func (r *tokenRepo) Upsert(ctx context.Context, userID primitive.ObjectID, refreshToken string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"refresh_token": refreshToken, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	return err
}

func (r *tokenRepo) FindByToken(ctx context.Context, refreshToken string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := r.coll.FindOne(ctx, bson.M{"refresh_token": refreshToken}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}

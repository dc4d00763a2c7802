package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erfrost/playreal-backend/internal/models"
)

type CatalogRepository interface {
	ListGames(ctx context.Context) ([]*models.Game, error)
	FindGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	ListServices(ctx context.Context, gameID primitive.ObjectID) ([]*models.CatalogService, error)
	FindService(ctx context.Context, id primitive.ObjectID) (*models.CatalogService, error)
}

type catalogRepo struct {
	games    *mongo.Collection
	services *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	return &catalogRepo{
		games:    db.Collection(ColGames),
		services: db.Collection(ColServices),
	}
}

func (r *catalogRepo) ListGames(ctx context.Context) ([]*models.Game, error) {
	cur, err := r.games.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Game
	for cur.Next(ctx) {
		var g models.Game
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, cur.Err()
}

func (r *catalogRepo) FindGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var g models.Game
	if err := r.games.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *catalogRepo) ListServices(ctx context.Context, gameID primitive.ObjectID) ([]*models.CatalogService, error) {
	filter := bson.M{}
	if !gameID.IsZero() {
		filter["game_id"] = gameID
	}
	cur, err := r.services.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.CatalogService
	for cur.Next(ctx) {
		var s models.CatalogService
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}

func (r *catalogRepo) FindService(ctx context.Context, id primitive.ObjectID) (*models.CatalogService, error) {
	var s models.CatalogService
	if err := r.services.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

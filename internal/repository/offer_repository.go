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

type OfferRepository interface {
	Create(ctx context.Context, o *models.Offer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Offer, error)
	ListByBooster(ctx context.Context, boosterID primitive.ObjectID) ([]*models.Offer, error)
	ListPendingByGames(ctx context.Context, gameIDs []primitive.ObjectID) ([]*models.Offer, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string, boosterID primitive.ObjectID) error
}

type offerRepo struct {
	coll *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) OfferRepository {
	coll := db.Collection(ColOffers)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("game_status_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &offerRepo{coll: coll}
}

func (r *offerRepo) Create(ctx context.Context, o *models.Offer) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = models.OfferPending
	}
	res, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *offerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	var o models.Offer
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *offerRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Offer, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *offerRepo) ListByBooster(ctx context.Context, boosterID primitive.ObjectID) ([]*models.Offer, error) {
	return r.list(ctx, bson.M{"booster_id": boosterID})
}

func (r *offerRepo) ListPendingByGames(ctx context.Context, gameIDs []primitive.ObjectID) ([]*models.Offer, error) {
	filter := bson.M{"game_id": bson.M{"$in": gameIDs}, "status": models.OfferPending}
	return r.list(ctx, filter)
}

func (r *offerRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string, boosterID primitive.ObjectID) error {
	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	if !boosterID.IsZero() {
		set["booster_id"] = boosterID
	}
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *offerRepo) list(ctx context.Context, filter bson.M) ([]*models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Offer
	for cur.Next(ctx) {
		var o models.Offer
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, cur.Err()
}

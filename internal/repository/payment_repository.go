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

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Payment, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type paymentRepo struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	coll := db.Collection(ColPayments)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
		Options: options.Index().SetSparse(true).SetUnique(true).SetName("idempotency_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &paymentRepo{coll: coll}
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.PaymentWaiting
	}
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error) {
	var p models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Payment
	for cur.Next(ctx) {
		var p models.Payment
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *paymentRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

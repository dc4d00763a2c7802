package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OfferPending = "Pending"
	OfferAtWork  = "AtWork"
	OfferReview  = "Review"
	OfferAlready = "Already"
)

type Additional struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title string             `bson:"title" json:"title"`
	Price int                `bson:"price" json:"price"`
	Days  int                `bson:"days" json:"days"`
}

type Offer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	ServiceID   primitive.ObjectID `bson:"service_id" json:"serviceId"`
	GameID      primitive.ObjectID `bson:"game_id" json:"gameId"`
	RatingRange []int              `bson:"rating_range" json:"ratingRange"`
	Additionals []Additional       `bson:"additionals" json:"additionals"`
	Status      string             `bson:"status" json:"status"`
	BoosterID   primitive.ObjectID `bson:"booster_id,omitempty" json:"boosterId,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

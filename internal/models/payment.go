package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentWaiting = "Waiting for payment"
	PaymentPaid    = "paid"
)

type PaymentItem struct {
	ServiceID   string       `bson:"service_id" json:"serviceId"`
	Name        string       `bson:"name" json:"name"`
	Image       string       `bson:"image" json:"image"`
	Amount      int          `bson:"amount" json:"amount"`
	RatingRange []int        `bson:"rating_range" json:"ratingRange"`
	Additionals []Additional `bson:"additionals" json:"additionals"`
}

type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	Amount         int                `bson:"amount" json:"amount"`
	Items          []PaymentItem      `bson:"items" json:"items"`
	Status         string             `bson:"status" json:"status"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

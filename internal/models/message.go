package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID      primitive.ObjectID `bson:"chat_id" json:"chatId"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"senderId"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	Text        string             `bson:"text,omitempty" json:"text"`
	Files       []string           `bson:"files,omitempty" json:"files"`
	Audio       string             `bson:"audio,omitempty" json:"audio"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

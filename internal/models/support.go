package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupportConversation is a user's single ongoing thread with support.
// UserID is always the requesting user, never the operator.
type SupportConversation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	LastMessage string             `bson:"last_message,omitempty" json:"lastMessage"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type SupportMessage struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SupportChatID primitive.ObjectID `bson:"support_chat_id" json:"supportChatId"`
	SenderID      primitive.ObjectID `bson:"sender_id" json:"senderId"`
	Text          string             `bson:"text,omitempty" json:"text"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is a two-party direct chat thread. Exactly one conversation
// exists per unordered pair of users; it is created when a booster accepts
// an offer, never by the messaging layer.
type Conversation struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Users       []primitive.ObjectID `bson:"users" json:"users"`
	UnreadCount int                  `bson:"unread_messages_count" json:"unreadMessagesCount"`
	LastMessage string               `bson:"last_message,omitempty" json:"lastMessage"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser    = "user"
	RoleBooster = "booster"
)

type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Role           string               `bson:"role" json:"role"`
	Email          string               `bson:"email" json:"email"`
	OAuth          string               `bson:"oauth,omitempty" json:"oauth,omitempty"`
	Nickname       string               `bson:"nickname" json:"nickname"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	AvatarURL      string               `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	PasswordHash   string               `bson:"password,omitempty" json:"-"`
	Games          []primitive.ObjectID `bson:"games" json:"games"`
	OnlineStatus   bool                 `bson:"online_status" json:"onlineStatus"`
	LastOnlineDate time.Time            `bson:"last_online_date,omitempty" json:"lastOnlineDate"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Game struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type Requirement struct {
	Title string `bson:"title" json:"title"`
	Text  string `bson:"text" json:"text"`
}

// CatalogService is a purchasable boosting service within a game.
type CatalogService struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GameID            primitive.ObjectID `bson:"game_id" json:"gameId"`
	Name              string             `bson:"name" json:"name"`
	Title             string             `bson:"title" json:"title"`
	BasePrice         int                `bson:"base_price" json:"basePrice"`
	CoefficientMMR    float64            `bson:"coefficient_mmr" json:"coefficientMmr"`
	BaseMMRPrice      int                `bson:"base_mmr_price" json:"baseMmrPrice"`
	BaseMMRDays       int                `bson:"base_mmr_days" json:"baseMmrDays"`
	Params            []string           `bson:"params" json:"params"`
	BackgroundCard    string             `bson:"background_card" json:"backgroundCard"`
	BackgroundHeader  string             `bson:"background_header" json:"backgroundHeader"`
	Images            []string           `bson:"images,omitempty" json:"images,omitempty"`
	RequirementsTitle string             `bson:"requirements_title,omitempty" json:"requirementsTitle,omitempty"`
	Requirements      []Requirement      `bson:"requirements,omitempty" json:"requirements,omitempty"`
	RatingRange       []int              `bson:"rating_range" json:"ratingRange"`
	BoosterLink       string             `bson:"booster_link" json:"boosterLink"`
	Additionals       []Additional       `bson:"additionals" json:"additionals"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

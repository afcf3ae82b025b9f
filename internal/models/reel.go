package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reel represents a short video stored in MongoDB
type Reel struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	VideoURL   string             `json:"video_url" bson:"video_url"`
	Caption    string             `json:"caption,omitempty" bson:"caption,omitempty"`
	LikesCount int                `json:"likes_count" bson:"likes_count"`
	ViewsCount int                `json:"views_count" bson:"views_count"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// CreateReelRequest defines the request body for creating a reel
type CreateReelRequest struct {
	VideoURL string `json:"video_url" validate:"required,url"`
	Caption  string `json:"caption,omitempty" validate:"omitempty,max=300"`
}

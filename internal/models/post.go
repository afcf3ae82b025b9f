package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post permissions. Visibility is a hard gate: community posts are visible
// to everyone, friends posts only to the author and accepted friends,
// private posts only to the author.
const (
	PermissionCommunity = "community"
	PermissionFriends   = "friends"
	PermissionPrivate   = "private"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID       uint               `json:"author_id" bson:"author_id"`
	Content        string             `json:"content" bson:"content"`
	Permission     string             `json:"permission" bson:"permission"`
	ImageURLs      []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	VideoURLs      []string           `json:"video_urls,omitempty" bson:"video_urls,omitempty"`
	OriginalPostID string             `json:"original_post_id,omitempty" bson:"original_post_id,omitempty"` // set when this post is a share
	LikesCount     int                `json:"likes_count" bson:"likes_count"`
	CommentsCount  int                `json:"comments_count" bson:"comments_count"`
	SharesCount    int                `json:"shares_count" bson:"shares_count"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// Title returns the short form of the post used in notification messages.
// Truncation counts runes so multibyte content never yields invalid UTF-8.
func (p *Post) Title() string {
	const max = 40
	runes := []rune(p.Content)
	if len(runes) <= max {
		return p.Content
	}
	return string(runes[:max]) + "..."
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content        string   `json:"content" validate:"required,min=1,max=280"`
	Permission     string   `json:"permission" validate:"required,oneof=community friends private"`
	ImageURLs      []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs      []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
	OriginalPostID string   `json:"original_post_id,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content    string   `json:"content,omitempty" validate:"omitempty,min=1,max=280"`
	Permission string   `json:"permission,omitempty" validate:"omitempty,oneof=community friends private"`
	ImageURLs  []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs  []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
}

package models

import "gorm.io/gorm"

// Like represents a like on a post. One row per (post, user) pair; the
// post's denormalized likes counter is kept in step by the engagement service.
type Like struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"` // MongoDB ObjectID as string
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
}

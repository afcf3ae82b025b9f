package models

import "gorm.io/gorm"

// Message represents a direct chat message between two users
type Message struct {
	gorm.Model
	SenderID    uint   `json:"sender_id" gorm:"index"`
	RecipientID uint   `json:"recipient_id" gorm:"index"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url,omitempty"`
}

// Group represents a chat group
type Group struct {
	gorm.Model
	Name      string `json:"name"`
	OwnerID   uint   `json:"owner_id" gorm:"index"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GroupMember ties a user to a group
type GroupMember struct {
	gorm.Model
	GroupID uint `json:"group_id" gorm:"index;uniqueIndex:idx_group_member"`
	UserID  uint `json:"user_id" gorm:"index;uniqueIndex:idx_group_member"`
}

// GroupMessage represents a message posted in a group
type GroupMessage struct {
	gorm.Model
	GroupID  uint   `json:"group_id" gorm:"index"`
	SenderID uint   `json:"sender_id" gorm:"index"`
	Content  string `json:"content"`
	MediaURL string `json:"media_url,omitempty"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Content     string `json:"content" validate:"required,min=1,max=2000"`
	MediaURL    string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=80"`
	MemberIDs []uint `json:"member_ids,omitempty"`
}

// SendGroupMessageRequest defines the request body for posting in a group
type SendGroupMessageRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

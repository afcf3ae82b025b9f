package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Relationship edge statuses. A rejected, revoked or unfriended edge is
// deleted rather than kept in a terminal state, so a requester may re-send.
const (
	RelationshipPending  = "pending"
	RelationshipAccepted = "accepted"
)

// RelationshipEdge represents a directed friend request between two users.
// At most one edge may exist per unordered pair; PairKey carries the
// normalized pair and is enforced unique by the database, which closes the
// check-then-insert race between concurrent senders.
type RelationshipEdge struct {
	gorm.Model
	RequesterID uint   `json:"requester_id" gorm:"index"`
	ReceiverID  uint   `json:"receiver_id" gorm:"index"`
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PairKey     string `json:"-" gorm:"uniqueIndex;size:40"`
}

// NormalizePair builds the order-independent key for a user pair.
func NormalizePair(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// CreateRelationshipRequest defines the request body for sending a friend request
type CreateRelationshipRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// Package relationship implements the friend-request lifecycle: how two
// users move between strangers, a pending request, and an accepted
// friendship. The store is the single source of truth; friend lists are
// recomputed on demand rather than cached.
package relationship

import (
	"errors"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
	"gorm.io/gorm"
)

var (
	// ErrSelfRequest is returned when a user targets themselves.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")
	// ErrAlreadyLinked is returned when a pending or accepted edge already exists.
	ErrAlreadyLinked = errors.New("a friend request or friendship already exists between these users")
	// ErrEdgeNotFound is returned when the referenced edge does not exist.
	ErrEdgeNotFound = errors.New("friend request not found")
	// ErrNotReceiver is returned when a caller tries to act on a request addressed to someone else.
	ErrNotReceiver = errors.New("only the receiver of a friend request may act on it")
	// ErrNotFriends is returned by Unfriend when no accepted edge exists.
	ErrNotFriends = errors.New("users are not friends")
)

// Service applies the lifecycle rules on top of the relationship store.
type Service struct {
	edges repositories.RelationshipRepository
}

// NewService creates a relationship Service
func NewService(edges repositories.RelationshipRepository) *Service {
	return &Service{edges: edges}
}

// SendRequest creates a pending edge from requester to receiver.
//
// If an edge already exists in either direction with status pending or
// accepted, nothing is mutated. The one exception is a reverse pending edge
// (the receiver had already requested the requester): the store replaces it
// with a fresh forward edge, so a crossed pair of requests becomes a new
// request rather than an auto-accept.
func (s *Service) SendRequest(requesterID, receiverID uint) (*models.RelationshipEdge, error) {
	if requesterID == receiverID {
		return nil, ErrSelfRequest
	}

	edge, err := s.edges.CreatePending(requesterID, receiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrEdgeExists) {
			return nil, ErrAlreadyLinked
		}
		return nil, err
	}
	return edge, nil
}

// AcceptRequest transitions a pending edge to accepted. The caller must be
// the edge's receiver. Accepting an already-accepted edge is a no-op;
// accepting a missing edge returns ErrEdgeNotFound rather than failing hard.
func (s *Service) AcceptRequest(callerID, edgeID uint) (*models.RelationshipEdge, error) {
	edge, err := s.edges.GetEdgeByID(edgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEdgeNotFound
		}
		return nil, err
	}

	if edge.ReceiverID != callerID {
		return nil, ErrNotReceiver
	}
	if edge.Status == models.RelationshipAccepted {
		return edge, nil
	}

	if err := s.edges.UpdateStatus(edge.ID, models.RelationshipAccepted); err != nil {
		return nil, err
	}
	edge.Status = models.RelationshipAccepted
	return edge, nil
}

// RejectRequest deletes a pending edge addressed to the caller. No rejected
// state is persisted, so the requester may immediately re-send.
func (s *Service) RejectRequest(callerID, edgeID uint) error {
	edge, err := s.edges.GetEdgeByID(edgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEdgeNotFound
		}
		return err
	}

	if edge.ReceiverID != callerID {
		return ErrNotReceiver
	}
	return s.edges.DeleteEdge(edge.ID)
}

// RevokeRequest withdraws the caller's pending outbound request to the given
// receiver. It is a no-op when no such request exists.
func (s *Service) RevokeRequest(requesterID, receiverID uint) error {
	edge, err := s.edges.GetPendingOutbound(requesterID, receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.edges.DeleteEdge(edge.ID)
}

// Unfriend deletes the accepted edge between the caller and another user,
// whichever direction the original request ran.
func (s *Service) Unfriend(userID, otherID uint) error {
	edge, err := s.edges.GetEdgeByPair(userID, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFriends
		}
		return err
	}

	if edge.Status != models.RelationshipAccepted {
		return ErrNotFriends
	}
	return s.edges.DeleteEdge(edge.ID)
}

// Friends returns the IDs of the caller's accepted friends.
func (s *Service) Friends(userID uint) ([]uint, error) {
	return s.edges.GetAcceptedPartnerIDs(userID)
}

// PendingInbound returns the pending requests addressed to the caller.
func (s *Service) PendingInbound(userID uint) ([]models.RelationshipEdge, error) {
	return s.edges.GetPendingInbound(userID)
}

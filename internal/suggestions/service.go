// Package suggestions computes friend suggestions on demand from the
// relationship store. Hiding a suggestion is a process-local, per-user
// exclusion only and never mutates the store.
package suggestions

import (
	"sync"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// Service recommends users the viewer has no edge with
type Service struct {
	users repositories.UserRepository
	edges repositories.RelationshipRepository

	mu     sync.Mutex
	hidden map[uint]map[uint]struct{} // viewer -> hidden user IDs
}

// NewService creates a suggestions Service
func NewService(users repositories.UserRepository, edges repositories.RelationshipRepository) *Service {
	return &Service{
		users:  users,
		edges:  edges,
		hidden: make(map[uint]map[uint]struct{}),
	}
}

// Suggestions returns users with no relationship to the viewer, minus any
// the viewer has hidden in this process.
func (s *Service) Suggestions(viewerID uint, limit int) ([]models.UserCompact, error) {
	users, err := s.users.GetUsers()
	if err != nil {
		return nil, err
	}

	connected := make(map[uint]bool)
	connected[viewerID] = true
	partnerIDs, err := s.edges.GetAcceptedPartnerIDs(viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range partnerIDs {
		connected[id] = true
	}

	// Copy the hidden set so Hide can keep writing to the live map while
	// the membership checks below run outside the lock.
	s.mu.Lock()
	hiddenSet := make(map[uint]struct{}, len(s.hidden[viewerID]))
	for id := range s.hidden[viewerID] {
		hiddenSet[id] = struct{}{}
	}
	s.mu.Unlock()

	suggestions := make([]models.UserCompact, 0, limit)
	for i := range users {
		u := &users[i]
		if connected[u.ID] {
			continue
		}
		if _, ok := hiddenSet[u.ID]; ok {
			continue
		}
		// A pending request in either direction also disqualifies.
		if edge, err := s.edges.GetEdgeByPair(viewerID, u.ID); err == nil && edge != nil {
			continue
		}
		suggestions = append(suggestions, u.ToCompact())
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions, nil
}

// Hide removes a user from the viewer's suggestions without touching the store.
func (s *Service) Hide(viewerID, otherID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden[viewerID] == nil {
		s.hidden[viewerID] = make(map[uint]struct{})
	}
	s.hidden[viewerID][otherID] = struct{}{}
}

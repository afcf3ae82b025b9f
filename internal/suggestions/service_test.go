package suggestions

import (
	"context"
	"sync"
	"testing"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUserDirectory is a UserRepository over a fixed user list
type fakeUserDirectory struct {
	users []models.User
}

func (f *fakeUserDirectory) GetUsers() ([]models.User, error) { return f.users, nil }

func (f *fakeUserDirectory) GetUserByID(id uint) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserDirectory) CreateUser(*models.User) error { return nil }
func (f *fakeUserDirectory) GetUserByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) GetUserByFirebaseUID(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) UpdateUser(*models.User) error { return nil }
func (f *fakeUserDirectory) DeleteUser(uint) error         { return nil }
func (f *fakeUserDirectory) SearchUsers(context.Context, string) ([]models.User, error) {
	return nil, nil
}

// fakeEdgeLookup is a RelationshipRepository over explicit edges
type fakeEdgeLookup struct {
	edges []models.RelationshipEdge
}

func (f *fakeEdgeLookup) GetEdgeByPair(a, b uint) (*models.RelationshipEdge, error) {
	pairKey := models.NormalizePair(a, b)
	for i := range f.edges {
		if f.edges[i].PairKey == pairKey {
			return &f.edges[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEdgeLookup) GetAcceptedPartnerIDs(userID uint) ([]uint, error) {
	var out []uint
	for _, e := range f.edges {
		if e.Status != models.RelationshipAccepted {
			continue
		}
		if e.RequesterID == userID {
			out = append(out, e.ReceiverID)
		} else if e.ReceiverID == userID {
			out = append(out, e.RequesterID)
		}
	}
	return out, nil
}

func (f *fakeEdgeLookup) CreatePending(uint, uint) (*models.RelationshipEdge, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEdgeLookup) GetEdgeByID(uint) (*models.RelationshipEdge, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEdgeLookup) GetPendingOutbound(uint, uint) (*models.RelationshipEdge, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEdgeLookup) GetPendingInbound(uint) ([]models.RelationshipEdge, error) {
	return nil, nil
}
func (f *fakeEdgeLookup) UpdateStatus(uint, string) error { return nil }
func (f *fakeEdgeLookup) DeleteEdge(uint) error           { return nil }

func (f *fakeEdgeLookup) add(requester, receiver uint, status string) {
	f.edges = append(f.edges, models.RelationshipEdge{
		RequesterID: requester,
		ReceiverID:  receiver,
		Status:      status,
		PairKey:     models.NormalizePair(requester, receiver),
	})
}

func usersNamed(ids ...uint) []models.User {
	out := make([]models.User, len(ids))
	for i, id := range ids {
		out[i] = models.User{ID: id, Name: "user"}
	}
	return out
}

func suggestedIDs(t *testing.T, svc *Service, viewerID uint) []uint {
	t.Helper()
	got, err := svc.Suggestions(viewerID, 10)
	require.NoError(t, err)
	ids := make([]uint, len(got))
	for i, u := range got {
		ids[i] = u.ID
	}
	return ids
}

func TestSuggestionsExcludeConnectedUsers(t *testing.T) {
	edges := &fakeEdgeLookup{}
	edges.add(1, 2, models.RelationshipAccepted)
	edges.add(3, 1, models.RelationshipPending)
	svc := NewService(&fakeUserDirectory{users: usersNamed(1, 2, 3, 4, 5)}, edges)

	// Self, the accepted friend and the pending requester are all out.
	assert.ElementsMatch(t, []uint{4, 5}, suggestedIDs(t, svc, 1))
}

func TestSuggestionsRespectLimit(t *testing.T) {
	svc := NewService(&fakeUserDirectory{users: usersNamed(1, 2, 3, 4, 5)}, &fakeEdgeLookup{})

	got, err := svc.Suggestions(1, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestHideIsLocalAndPerViewer(t *testing.T) {
	edges := &fakeEdgeLookup{}
	svc := NewService(&fakeUserDirectory{users: usersNamed(1, 2, 3)}, edges)

	svc.Hide(1, 2)

	assert.ElementsMatch(t, []uint{3}, suggestedIDs(t, svc, 1))
	// Another viewer still sees the hidden user and the store has no edge.
	assert.ElementsMatch(t, []uint{1, 2}, suggestedIDs(t, svc, 3))
	assert.Empty(t, edges.edges)
}

func TestConcurrentHideAndSuggestions(t *testing.T) {
	ids := make([]uint, 0, 101)
	for id := uint(1); id <= 101; id++ {
		ids = append(ids, id)
	}
	svc := NewService(&fakeUserDirectory{users: usersNamed(ids...)}, &fakeEdgeLookup{})

	// Hiding and listing for the same viewer must be safe to interleave.
	var wg sync.WaitGroup
	for i := uint(2); i <= 101; i++ {
		wg.Add(2)
		go func(other uint) {
			defer wg.Done()
			svc.Hide(1, other)
		}(i)
		go func() {
			defer wg.Done()
			_, err := svc.Suggestions(1, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Suggestions(1, 200)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHiddenUserReturnsInNewService(t *testing.T) {
	users := &fakeUserDirectory{users: usersNamed(1, 2)}
	edges := &fakeEdgeLookup{}

	svc := NewService(users, edges)
	svc.Hide(1, 2)
	assert.Empty(t, suggestedIDs(t, svc, 1))

	// Hides do not survive the process: a fresh service suggests again.
	fresh := NewService(users, edges)
	assert.ElementsMatch(t, []uint{2}, suggestedIDs(t, fresh, 1))
}

package relationship

import (
	"testing"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeEdgeRepo is an in-memory RelationshipRepository honoring the same
// contract as the postgres implementation, including the unique pair key
// and the reverse-pending replacement on insert.
type fakeEdgeRepo struct {
	nextID uint
	edges  map[uint]*models.RelationshipEdge
}

func newFakeEdgeRepo() *fakeEdgeRepo {
	return &fakeEdgeRepo{nextID: 1, edges: make(map[uint]*models.RelationshipEdge)}
}

func (f *fakeEdgeRepo) CreatePending(requesterID, receiverID uint) (*models.RelationshipEdge, error) {
	pairKey := models.NormalizePair(requesterID, receiverID)
	for id, e := range f.edges {
		if e.PairKey != pairKey {
			continue
		}
		if e.Status == models.RelationshipPending && e.RequesterID == receiverID {
			delete(f.edges, id)
			break
		}
		return nil, repositories.ErrEdgeExists
	}

	edge := &models.RelationshipEdge{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.RelationshipPending,
		PairKey:     pairKey,
	}
	edge.ID = f.nextID
	f.nextID++
	f.edges[edge.ID] = edge
	return edge, nil
}

func (f *fakeEdgeRepo) GetEdgeByID(id uint) (*models.RelationshipEdge, error) {
	if e, ok := f.edges[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEdgeRepo) GetEdgeByPair(userA, userB uint) (*models.RelationshipEdge, error) {
	pairKey := models.NormalizePair(userA, userB)
	for _, e := range f.edges {
		if e.PairKey == pairKey {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEdgeRepo) GetPendingOutbound(requesterID, receiverID uint) (*models.RelationshipEdge, error) {
	for _, e := range f.edges {
		if e.RequesterID == requesterID && e.ReceiverID == receiverID && e.Status == models.RelationshipPending {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEdgeRepo) GetPendingInbound(receiverID uint) ([]models.RelationshipEdge, error) {
	var out []models.RelationshipEdge
	for _, e := range f.edges {
		if e.ReceiverID == receiverID && e.Status == models.RelationshipPending {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEdgeRepo) GetAcceptedPartnerIDs(userID uint) ([]uint, error) {
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

func (f *fakeEdgeRepo) UpdateStatus(id uint, status string) error {
	if e, ok := f.edges[id]; ok {
		e.Status = status
	}
	return nil
}

func (f *fakeEdgeRepo) DeleteEdge(id uint) error {
	delete(f.edges, id)
	return nil
}

func (f *fakeEdgeRepo) edgeCount() int { return len(f.edges) }

func TestSendRequestCreatesPendingEdge(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	edge, err := svc.SendRequest(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), edge.RequesterID)
	assert.Equal(t, uint(2), edge.ReceiverID)
	assert.Equal(t, models.RelationshipPending, edge.Status)
	assert.Equal(t, 1, repo.edgeCount())
}

func TestSendRequestToSelfFails(t *testing.T) {
	svc := NewService(newFakeEdgeRepo())

	_, err := svc.SendRequest(1, 1)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestDuplicateSendRequestIsRejected(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	_, err := svc.SendRequest(1, 2)
	require.NoError(t, err)

	_, err = svc.SendRequest(1, 2)
	assert.ErrorIs(t, err, ErrAlreadyLinked)
	assert.Equal(t, 1, repo.edgeCount())
}

func TestCrossedRequestsCollapseToFreshForwardEdge(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	_, err := svc.SendRequest(1, 2)
	require.NoError(t, err)

	// The receiver sends their own request before accepting: the original
	// pending edge is replaced, never auto-accepted.
	edge, err := svc.SendRequest(2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(2), edge.RequesterID)
	assert.Equal(t, uint(1), edge.ReceiverID)
	assert.Equal(t, models.RelationshipPending, edge.Status)
	assert.Equal(t, 1, repo.edgeCount())
}

func TestSendRequestFailsWhenAlreadyFriends(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	edge, err := svc.SendRequest(1, 2)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(2, edge.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(2, 1)
	assert.ErrorIs(t, err, ErrAlreadyLinked)
	assert.Equal(t, 1, repo.edgeCount())
}

func TestAcceptRequest(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	edge, err := svc.SendRequest(1, 2)
	require.NoError(t, err)

	accepted, err := svc.AcceptRequest(2, edge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipAccepted, accepted.Status)

	// Accepting again is a no-op, not a failure.
	again, err := svc.AcceptRequest(2, edge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipAccepted, again.Status)
}

func TestAcceptRequestRequiresReceiver(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	edge, err := svc.SendRequest(1, 2)
	require.NoError(t, err)

	_, err = svc.AcceptRequest(1, edge.ID)
	assert.ErrorIs(t, err, ErrNotReceiver)

	_, err = svc.AcceptRequest(3, edge.ID)
	assert.ErrorIs(t, err, ErrNotReceiver)
}

func TestAcceptMissingEdgeIsNotFound(t *testing.T) {
	svc := NewService(newFakeEdgeRepo())

	_, err := svc.AcceptRequest(2, 999)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestRejectDeletesEdgeAndAllowsResend(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	edge, err := svc.SendRequest(1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.RejectRequest(2, edge.ID))
	assert.Equal(t, 0, repo.edgeCount())

	// No rejected state is persisted: the requester may re-send at once.
	_, err = svc.SendRequest(1, 2)
	assert.NoError(t, err)
}

func TestRevokeRequest(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	_, err := svc.SendRequest(1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRequest(1, 2))
	assert.Equal(t, 0, repo.edgeCount())

	// Revoking a request that does not exist is a no-op.
	assert.NoError(t, svc.RevokeRequest(1, 2))
}

func TestUnfriendDeletesAcceptedEdgeEitherDirection(t *testing.T) {
	for _, caller := range []uint{1, 2} {
		repo := newFakeEdgeRepo()
		svc := NewService(repo)

		edge, err := svc.SendRequest(1, 2)
		require.NoError(t, err)
		_, err = svc.AcceptRequest(2, edge.ID)
		require.NoError(t, err)

		other := uint(3) - caller
		require.NoError(t, svc.Unfriend(caller, other))
		assert.Equal(t, 0, repo.edgeCount())
	}
}

func TestUnfriendRequiresAcceptedEdge(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	assert.ErrorIs(t, svc.Unfriend(1, 2), ErrNotFriends)

	_, err := svc.SendRequest(1, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Unfriend(1, 2), ErrNotFriends)
}

func TestFriendsListsAcceptedPartners(t *testing.T) {
	repo := newFakeEdgeRepo()
	svc := NewService(repo)

	e1, err := svc.SendRequest(1, 2)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(2, e1.ID)
	require.NoError(t, err)

	e2, err := svc.SendRequest(3, 1)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(1, e2.ID)
	require.NoError(t, err)

	// Pending edges never count.
	_, err = svc.SendRequest(1, 4)
	require.NoError(t, err)

	friends, err := svc.Friends(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{2, 3}, friends)
}

func TestNormalizePairIsOrderIndependent(t *testing.T) {
	assert.Equal(t, models.NormalizePair(7, 3), models.NormalizePair(3, 7))
	assert.Equal(t, "3:7", models.NormalizePair(7, 3))
}

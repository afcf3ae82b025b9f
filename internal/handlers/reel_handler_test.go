package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/engagement"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReelStore holds reels keyed by hex ID. View increments are reported on
// viewCalls so tests can wait for the detached counter write.
type fakeReelStore struct {
	rows      map[string]*models.Reel
	likes     map[string]int
	viewErr   error
	viewCalls chan string
}

func newFakeReelStore() *fakeReelStore {
	return &fakeReelStore{
		rows:      make(map[string]*models.Reel),
		likes:     make(map[string]int),
		viewCalls: make(chan string, 1),
	}
}

func (f *fakeReelStore) CreateReel(context.Context, *models.Reel) error { return nil }

func (f *fakeReelStore) GetReelByID(_ context.Context, id string) (*models.Reel, error) {
	if r, ok := f.rows[id]; ok {
		return r, nil
	}
	return nil, errors.New("reel not found")
}

func (f *fakeReelStore) GetReels(context.Context, int64, int64) ([]models.Reel, error) {
	return nil, nil
}
func (f *fakeReelStore) GetReelsByAuthorID(context.Context, uint) ([]models.Reel, error) {
	return nil, nil
}
func (f *fakeReelStore) DeleteReel(context.Context, string) error { return nil }

func (f *fakeReelStore) IncrementViewsCount(_ context.Context, reelID string) error {
	f.viewCalls <- reelID
	return f.viewErr
}

func (f *fakeReelStore) AdjustLikesCount(_ context.Context, reelID string, delta int) error {
	f.likes[reelID] += delta
	return nil
}

// fakeReelLikeRows is an in-memory LikeRepository keyed by (target, user)
type fakeReelLikeRows struct {
	rows map[string]map[uint]bool
}

func newFakeReelLikeRows() *fakeReelLikeRows {
	return &fakeReelLikeRows{rows: make(map[string]map[uint]bool)}
}

func (f *fakeReelLikeRows) CreateLike(like *models.Like) error {
	if f.rows[like.PostID] == nil {
		f.rows[like.PostID] = make(map[uint]bool)
	}
	f.rows[like.PostID][like.UserID] = true
	return nil
}

func (f *fakeReelLikeRows) DeleteLike(postID string, userID uint) error {
	delete(f.rows[postID], userID)
	return nil
}

func (f *fakeReelLikeRows) GetLikesByPostID(string) ([]models.Like, error) { return nil, nil }

func (f *fakeReelLikeRows) GetLikesCountByPostID(postID string) (int64, error) {
	return int64(len(f.rows[postID])), nil
}

func (f *fakeReelLikeRows) HasUserLikedPost(postID string, userID uint) (bool, error) {
	return f.rows[postID][userID], nil
}

func (f *fakeReelLikeRows) GetLikedPostIDs(uint, []string) (map[string]bool, error) {
	return nil, nil
}

func reelTestContext(userID uint, method, path, reelID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(reelID)
	c.Set("user", &models.JwtCustomClaims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{}})
	return c, rec
}

func waitForViewCall(t *testing.T, store *fakeReelStore) string {
	t.Helper()
	select {
	case id := <-store.viewCalls:
		return id
	case <-time.After(time.Second):
		t.Fatal("view counter write never happened")
		return ""
	}
}

func TestRecordViewSurvivesCounterFailure(t *testing.T) {
	store := newFakeReelStore()
	store.rows["r1"] = &models.Reel{AuthorID: 1}
	store.viewErr = errors.New("counter store unavailable")
	h := NewReelHandler(store, nil, nil)

	c, rec := reelTestContext(1, http.MethodPost, "/reels/r1/view", "r1")
	require.NoError(t, h.RecordView(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The write still ran; its failure stays out of the response.
	assert.Equal(t, "r1", waitForViewCall(t, store))
}

func TestRecordViewUnknownReel(t *testing.T) {
	store := newFakeReelStore()
	h := NewReelHandler(store, nil, nil)

	c, _ := reelTestContext(1, http.MethodPost, "/reels/missing/view", "missing")
	err := h.RecordView(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestToggleLikeMovesReelCounter(t *testing.T) {
	store := newFakeReelStore()
	store.rows["r1"] = &models.Reel{AuthorID: 2}
	likes := newFakeReelLikeRows()
	svc := engagement.NewService(likes, nil, nil, store)
	h := NewReelHandler(store, svc, nil)

	c, rec := reelTestContext(1, http.MethodPost, "/reels/r1/likes/toggle", "r1")
	require.NoError(t, h.ToggleLike(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["liked"])
	assert.Equal(t, 1, store.likes["r1"])

	c, rec = reelTestContext(1, http.MethodPost, "/reels/r1/likes/toggle", "r1")
	require.NoError(t, h.ToggleLike(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body["liked"])
	assert.Equal(t, 0, store.likes["r1"])
}

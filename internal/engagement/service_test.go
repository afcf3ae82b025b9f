package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errCounterDown = errors.New("counter store unavailable")

// fakeCounterStore is an in-memory PostRepository tracking only the
// denormalized counters, with switchable failure for the adjust calls.
type fakeCounterStore struct {
	likes    map[string]int
	comments map[string]int
	shares   map[string]int
	fail     bool
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		likes:    make(map[string]int),
		comments: make(map[string]int),
		shares:   make(map[string]int),
	}
}

func (f *fakeCounterStore) CreatePost(context.Context, *models.Post) error { return nil }
func (f *fakeCounterStore) GetPostByID(context.Context, string) (*models.Post, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCounterStore) GetPostsByAuthorID(context.Context, uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakeCounterStore) GetCommunityPosts(context.Context) ([]models.Post, error) {
	return nil, nil
}
func (f *fakeCounterStore) GetFriendsPostsByAuthors(context.Context, []uint) ([]models.Post, error) {
	return nil, nil
}
func (f *fakeCounterStore) UpdatePost(context.Context, string, *models.Post) error { return nil }
func (f *fakeCounterStore) DeletePost(context.Context, string) error               { return nil }

func (f *fakeCounterStore) AdjustLikesCount(_ context.Context, postID string, delta int) error {
	if f.fail {
		return errCounterDown
	}
	f.likes[postID] += delta
	return nil
}

func (f *fakeCounterStore) AdjustCommentsCount(_ context.Context, postID string, delta int) error {
	if f.fail {
		return errCounterDown
	}
	f.comments[postID] += delta
	return nil
}

func (f *fakeCounterStore) AdjustSharesCount(_ context.Context, postID string, delta int) error {
	if f.fail {
		return errCounterDown
	}
	f.shares[postID] += delta
	return nil
}

// fakeLikeRows is an in-memory LikeRepository
type fakeLikeRows struct {
	rows map[string]map[uint]bool
}

func newFakeLikeRows() *fakeLikeRows {
	return &fakeLikeRows{rows: make(map[string]map[uint]bool)}
}

func (f *fakeLikeRows) CreateLike(like *models.Like) error {
	if f.rows[like.PostID] == nil {
		f.rows[like.PostID] = make(map[uint]bool)
	}
	f.rows[like.PostID][like.UserID] = true
	return nil
}

func (f *fakeLikeRows) DeleteLike(postID string, userID uint) error {
	if !f.rows[postID][userID] {
		return repositories.ErrLikeNotFound
	}
	delete(f.rows[postID], userID)
	return nil
}

func (f *fakeLikeRows) GetLikesByPostID(string) ([]models.Like, error) { return nil, nil }

func (f *fakeLikeRows) GetLikesCountByPostID(postID string) (int64, error) {
	return int64(len(f.rows[postID])), nil
}

func (f *fakeLikeRows) HasUserLikedPost(postID string, userID uint) (bool, error) {
	return f.rows[postID][userID], nil
}

func (f *fakeLikeRows) GetLikedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range postIDs {
		if f.rows[id][userID] {
			out[id] = true
		}
	}
	return out, nil
}

// fakeCommentRows is an in-memory CommentRepository
type fakeCommentRows struct {
	nextID uint
	rows   map[uint]models.Comment
}

func newFakeCommentRows() *fakeCommentRows {
	return &fakeCommentRows{nextID: 1, rows: make(map[uint]models.Comment)}
}

func (f *fakeCommentRows) CreateComment(comment *models.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	f.rows[comment.ID] = *comment
	return nil
}

func (f *fakeCommentRows) GetCommentByID(id uint) (*models.Comment, error) {
	if c, ok := f.rows[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRows) GetCommentsByPostID(string) ([]models.Comment, error) { return nil, nil }
func (f *fakeCommentRows) GetCommentsByPostIDs([]string) (map[string][]models.Comment, error) {
	return nil, nil
}
func (f *fakeCommentRows) GetReplies(uint) ([]models.Comment, error) { return nil, nil }
func (f *fakeCommentRows) UpdateComment(*models.Comment) error       { return nil }

func (f *fakeCommentRows) DeleteComment(id uint) error {
	delete(f.rows, id)
	return nil
}

// fakeReelCounters is an in-memory ReelRepository tracking only the likes
// counter, with switchable failure for the adjust calls.
type fakeReelCounters struct {
	likes map[string]int
	fail  bool
}

func newFakeReelCounters() *fakeReelCounters {
	return &fakeReelCounters{likes: make(map[string]int)}
}

func (f *fakeReelCounters) CreateReel(context.Context, *models.Reel) error { return nil }
func (f *fakeReelCounters) GetReelByID(context.Context, string) (*models.Reel, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeReelCounters) GetReels(context.Context, int64, int64) ([]models.Reel, error) {
	return nil, nil
}
func (f *fakeReelCounters) GetReelsByAuthorID(context.Context, uint) ([]models.Reel, error) {
	return nil, nil
}
func (f *fakeReelCounters) DeleteReel(context.Context, string) error          { return nil }
func (f *fakeReelCounters) IncrementViewsCount(context.Context, string) error { return nil }

func (f *fakeReelCounters) AdjustLikesCount(_ context.Context, reelID string, delta int) error {
	if f.fail {
		return errCounterDown
	}
	f.likes[reelID] += delta
	return nil
}

func newTestService() (*Service, *fakeLikeRows, *fakeCommentRows, *fakeCounterStore, *fakeReelCounters) {
	likes := newFakeLikeRows()
	comments := newFakeCommentRows()
	posts := newFakeCounterStore()
	reels := newFakeReelCounters()
	return NewService(likes, comments, posts, reels), likes, comments, posts, reels
}

func TestToggleLikeIsReversible(t *testing.T) {
	svc, likes, _, posts, _ := newTestService()
	ctx := context.Background()

	liked, err := svc.ToggleLike(ctx, "p1", 1)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, posts.likes["p1"])

	liked, err = svc.ToggleLike(ctx, "p1", 1)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, posts.likes["p1"])
	assert.False(t, likes.rows["p1"][1])
}

func TestToggleLikeIndependentPerUser(t *testing.T) {
	svc, _, _, posts, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "p1", 1)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, posts.likes["p1"])

	_, err = svc.ToggleLike(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, posts.likes["p1"])
}

func TestToggleLikeRollsBackRowOnCounterFailure(t *testing.T) {
	svc, likes, _, posts, _ := newTestService()
	ctx := context.Background()

	posts.fail = true
	_, err := svc.ToggleLike(ctx, "p1", 1)
	assert.ErrorIs(t, err, errCounterDown)
	// The inserted row was rolled back: rows and counter stay in step.
	assert.False(t, likes.rows["p1"][1])
	assert.Equal(t, 0, posts.likes["p1"])
}

func TestToggleUnlikeRestoresRowOnCounterFailure(t *testing.T) {
	svc, likes, _, posts, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "p1", 1)
	require.NoError(t, err)

	posts.fail = true
	_, err = svc.ToggleLike(ctx, "p1", 1)
	assert.ErrorIs(t, err, errCounterDown)
	assert.True(t, likes.rows["p1"][1])
	assert.Equal(t, 1, posts.likes["p1"])
}

func TestAddCommentBumpsCounter(t *testing.T) {
	svc, _, comments, posts, _ := newTestService()
	ctx := context.Background()

	c := &models.Comment{PostID: "p1", UserID: 1, Content: "hi"}
	require.NoError(t, svc.AddComment(ctx, c))
	assert.Equal(t, 1, posts.comments["p1"])
	assert.Len(t, comments.rows, 1)
}

func TestAddCommentRollsBackOnCounterFailure(t *testing.T) {
	svc, _, comments, posts, _ := newTestService()
	ctx := context.Background()

	posts.fail = true
	c := &models.Comment{PostID: "p1", UserID: 1, Content: "hi"}
	assert.ErrorIs(t, svc.AddComment(ctx, c), errCounterDown)
	assert.Empty(t, comments.rows)
}

func TestRemoveCommentDecrementsCounter(t *testing.T) {
	svc, _, comments, posts, _ := newTestService()
	ctx := context.Background()

	c := &models.Comment{PostID: "p1", UserID: 1, Content: "hi"}
	require.NoError(t, svc.AddComment(ctx, c))
	require.NoError(t, svc.RemoveComment(ctx, c))
	assert.Equal(t, 0, posts.comments["p1"])
	assert.Empty(t, comments.rows)
}

func TestRemoveCommentSurvivesCounterFailure(t *testing.T) {
	svc, _, comments, posts, _ := newTestService()
	ctx := context.Background()

	c := &models.Comment{PostID: "p1", UserID: 1, Content: "hi"}
	require.NoError(t, svc.AddComment(ctx, c))

	// The row deletion wins even when the decrement fails.
	posts.fail = true
	assert.NoError(t, svc.RemoveComment(ctx, c))
	assert.Empty(t, comments.rows)
}

func TestRecordShare(t *testing.T) {
	svc, _, _, posts, _ := newTestService()
	ctx := context.Background()

	svc.RecordShare(ctx, "p1")
	svc.RecordShare(ctx, "p1")
	assert.Equal(t, 2, posts.shares["p1"])

	// Failures are swallowed: a share is best-effort on the counter.
	posts.fail = true
	svc.RecordShare(ctx, "p1")
	assert.Equal(t, 2, posts.shares["p1"])
}

func TestToggleReelLikeIsReversible(t *testing.T) {
	svc, likes, _, _, reels := newTestService()
	ctx := context.Background()

	liked, err := svc.ToggleReelLike(ctx, "r1", 1)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, reels.likes["r1"])

	liked, err = svc.ToggleReelLike(ctx, "r1", 1)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, reels.likes["r1"])
	assert.False(t, likes.rows["r1"][1])
}

func TestToggleReelLikeRollsBackRowOnCounterFailure(t *testing.T) {
	svc, likes, _, _, reels := newTestService()
	ctx := context.Background()

	reels.fail = true
	_, err := svc.ToggleReelLike(ctx, "r1", 1)
	assert.ErrorIs(t, err, errCounterDown)
	assert.False(t, likes.rows["r1"][1])
	assert.Equal(t, 0, reels.likes["r1"])
}

func TestToggleReelLikeLeavesPostCountersAlone(t *testing.T) {
	svc, _, _, posts, reels := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleReelLike(ctx, "r1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reels.likes["r1"])
	assert.Empty(t, posts.likes)
}

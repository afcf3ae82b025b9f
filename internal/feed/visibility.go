// Package feed computes which posts a viewer may see. Visibility is a hard
// boolean gate derived from post permission and the viewer's relationship to
// the author, never a ranked or blended score.
package feed

import (
	"context"
	"sort"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// VisiblePost is a post enriched with the viewer's like status and comments
type VisiblePost struct {
	models.Post
	IsLiked  bool             `json:"is_liked"`
	Comments []models.Comment `json:"comments"`
}

// Service assembles the visible feed for a viewer
type Service struct {
	posts    repositories.PostRepository
	edges    repositories.RelationshipRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
}

// NewService creates a feed Service
func NewService(
	posts repositories.PostRepository,
	edges repositories.RelationshipRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
) *Service {
	return &Service{posts: posts, edges: edges, likes: likes, comments: comments}
}

// VisiblePosts returns every post the viewer may see, newest first:
// community posts from anyone, friends posts from accepted friends and the
// viewer, and the viewer's own posts of any permission. Friends posts by
// strangers are excluded outright.
func (s *Service) VisiblePosts(ctx context.Context, viewerID uint) ([]VisiblePost, error) {
	friendIDs, err := s.edges.GetAcceptedPartnerIDs(viewerID)
	if err != nil {
		return nil, err
	}

	community, err := s.posts.GetCommunityPosts(ctx)
	if err != nil {
		return nil, err
	}

	friendsPosts, err := s.posts.GetFriendsPostsByAuthors(ctx, append(friendIDs, viewerID))
	if err != nil {
		return nil, err
	}

	// The viewer always sees their own posts, including private ones.
	own, err := s.posts.GetPostsByAuthorID(ctx, viewerID, 0, 1000)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var posts []models.Post
	for _, batch := range [][]models.Post{community, friendsPosts, own} {
		for _, p := range batch {
			id := p.ID.Hex()
			if seen[id] {
				continue
			}
			seen[id] = true
			posts = append(posts, p)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return s.enrich(viewerID, posts)
}

func (s *Service) enrich(viewerID uint, posts []models.Post) ([]VisiblePost, error) {
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
	}

	likedMap, err := s.likes.GetLikedPostIDs(viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	commentMap, err := s.comments.GetCommentsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	visible := make([]VisiblePost, len(posts))
	for i, p := range posts {
		id := p.ID.Hex()
		visible[i] = VisiblePost{
			Post:     p,
			IsLiked:  likedMap[id],
			Comments: commentMap[id],
		}
	}
	return visible, nil
}

// CanView reports whether a single post is visible to the viewer.
func (s *Service) CanView(viewerID uint, post *models.Post) (bool, error) {
	if post.AuthorID == viewerID {
		return true, nil
	}
	switch post.Permission {
	case models.PermissionCommunity:
		return true, nil
	case models.PermissionFriends:
		edge, err := s.edges.GetEdgeByPair(viewerID, post.AuthorID)
		if err != nil {
			return false, nil
		}
		return edge.Status == models.RelationshipAccepted, nil
	default:
		// private or unknown permission: author only
		return false, nil
	}
}

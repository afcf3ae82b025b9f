// Package engagement keeps like and comment rows consistent with the
// denormalized counters on their posts. Counter updates that fail roll the
// row mutation back so a toggle never drifts the count.
package engagement

import (
	"context"
	"errors"
	"log"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// Service mediates likes, comments and shares against post and reel counters
type Service struct {
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	reels    repositories.ReelRepository
}

// NewService creates an engagement Service
func NewService(
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	reels repositories.ReelRepository,
) *Service {
	return &Service{likes: likes, comments: comments, posts: posts, reels: reels}
}

// ToggleLike flips the viewer's like on a post and adjusts the post's
// counter by exactly one. Returns whether the post is liked after the call.
func (s *Service) ToggleLike(ctx context.Context, postID string, userID uint) (bool, error) {
	return s.toggleLike(ctx, postID, userID, s.posts.AdjustLikesCount)
}

// ToggleReelLike is ToggleLike against a reel's counter. Reel IDs share the
// like table's post_id column since both are ObjectID hex strings.
func (s *Service) ToggleReelLike(ctx context.Context, reelID string, userID uint) (bool, error) {
	return s.toggleLike(ctx, reelID, userID, s.reels.AdjustLikesCount)
}

// toggleLike flips the viewer's like row for targetID and moves the target's
// counter through adjust. A failed counter write rolls the row back.
func (s *Service) toggleLike(ctx context.Context, targetID string, userID uint, adjust func(context.Context, string, int) error) (bool, error) {
	liked, err := s.likes.HasUserLikedPost(targetID, userID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likes.DeleteLike(targetID, userID); err != nil {
			if errors.Is(err, repositories.ErrLikeNotFound) {
				return false, nil
			}
			return true, err
		}
		if err := adjust(ctx, targetID, -1); err != nil {
			// Roll the row deletion back so count and rows stay in step.
			if rbErr := s.likes.CreateLike(&models.Like{PostID: targetID, UserID: userID}); rbErr != nil {
				log.Printf("like rollback failed for %s user %d: %v", targetID, userID, rbErr)
			}
			return true, err
		}
		return false, nil
	}

	like := &models.Like{PostID: targetID, UserID: userID}
	if err := s.likes.CreateLike(like); err != nil {
		return false, err
	}
	if err := adjust(ctx, targetID, 1); err != nil {
		if rbErr := s.likes.DeleteLike(targetID, userID); rbErr != nil {
			log.Printf("like rollback failed for %s user %d: %v", targetID, userID, rbErr)
		}
		return false, err
	}
	return true, nil
}

// AddComment stores a comment and bumps the post's comment counter.
func (s *Service) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := s.comments.CreateComment(comment); err != nil {
		return err
	}
	if err := s.posts.AdjustCommentsCount(ctx, comment.PostID, 1); err != nil {
		if rbErr := s.comments.DeleteComment(comment.ID); rbErr != nil {
			log.Printf("comment rollback failed for post %s: %v", comment.PostID, rbErr)
		}
		return err
	}
	return nil
}

// RemoveComment deletes a comment and decrements the post's comment counter.
func (s *Service) RemoveComment(ctx context.Context, comment *models.Comment) error {
	if err := s.comments.DeleteComment(comment.ID); err != nil {
		return err
	}
	if err := s.posts.AdjustCommentsCount(ctx, comment.PostID, -1); err != nil {
		log.Printf("comment counter decrement failed for post %s: %v", comment.PostID, err)
	}
	return nil
}

// RecordShare bumps the shared post's counter after a share post is created.
func (s *Service) RecordShare(ctx context.Context, originalPostID string) {
	if err := s.posts.AdjustSharesCount(ctx, originalPostID, 1); err != nil {
		log.Printf("share counter increment failed for post %s: %v", originalPostID, err)
	}
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/engagement"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/notify"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engagement     *engagement.Service
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	notifier       *notify.Service
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	engagementSvc *engagement.Service,
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	notifier *notify.Service,
) *LikeHandler {
	return &LikeHandler{
		engagement:     engagementSvc,
		likeRepository: likeRepo,
		postRepository: postRepo,
		notifier:       notifier,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes/toggle", h.ToggleLike)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCountForPost)
	g.GET("/posts/:post_id/likes/status", h.GetUserLikeStatusForPost)
}

// ToggleLike flips the caller's like on a post. The notification is fired
// off the request path only when the toggle results in a like.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	liked, err := h.engagement.ToggleLike(c.Request().Context(), postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		go h.notifier.PostInteraction(models.NotificationLike, currentUserID, post)
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// GetLikesCountForPost returns the number of likes on a post
func (h *LikeHandler) GetLikesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")

	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// GetUserLikeStatusForPost returns whether the caller has liked a post
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	liked, err := h.likeRepository.HasUserLikedPost(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

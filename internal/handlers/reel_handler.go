package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/engagement"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// ReelHandler handles HTTP requests related to reels
type ReelHandler struct {
	reelRepository repositories.ReelRepository
	engagement     *engagement.Service
	userRepository repositories.UserRepository
}

// NewReelHandler creates a new ReelHandler
func NewReelHandler(
	reelRepo repositories.ReelRepository,
	engagementSvc *engagement.Service,
	userRepo repositories.UserRepository,
) *ReelHandler {
	return &ReelHandler{reelRepository: reelRepo, engagement: engagementSvc, userRepository: userRepo}
}

// RegisterReelRoutes registers reel-related routes
func (h *ReelHandler) RegisterReelRoutes(g *echo.Group) {
	g.POST("/reels", h.CreateReel)
	g.GET("/reels", h.GetReels)
	g.GET("/users/:id/reels", h.GetUserReels)
	g.POST("/reels/:id/view", h.RecordView)
	g.POST("/reels/:id/likes/toggle", h.ToggleLike)
	g.DELETE("/reels/:id", h.DeleteReel)
}

// CreateReel handles creating a new reel
func (h *ReelHandler) CreateReel(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateReelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reel := &models.Reel{
		AuthorID: currentUserID,
		VideoURL: req.VideoURL,
		Caption:  req.Caption,
	}
	if err := h.reelRepository.CreateReel(c.Request().Context(), reel); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, reel)
}

// GetReels returns reels newest first with pagination
func (h *ReelHandler) GetReels(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	reels, err := h.reelRepository.GetReels(c.Request().Context(), int64((page-1)*limit), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reels)
}

// GetUserReels returns a user's reels
func (h *ReelHandler) GetUserReels(c echo.Context) error {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	reels, err := h.reelRepository.GetReelsByAuthorID(c.Request().Context(), uint(authorID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reels)
}

// RecordView bumps a reel's view counter
func (h *ReelHandler) RecordView(c echo.Context) error {
	reelID := c.Param("id")

	if _, err := h.reelRepository.GetReelByID(c.Request().Context(), reelID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
	}

	// Detach from the request context so the handler returning does not
	// cancel the counter write.
	go func() {
		if err := h.reelRepository.IncrementViewsCount(context.Background(), reelID); err != nil {
			log.Printf("reel view counter increment failed for %s: %v", reelID, err)
		}
	}()

	return c.NoContent(http.StatusNoContent)
}

// ToggleLike flips the caller's like on a reel and keeps the counter in
// step, the same way post likes work.
func (h *ReelHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	reelID := c.Param("id")

	if _, err := h.reelRepository.GetReelByID(c.Request().Context(), reelID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
	}

	liked, err := h.engagement.ToggleReelLike(c.Request().Context(), reelID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// DeleteReel deletes the caller's own reel
func (h *ReelHandler) DeleteReel(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	reelID := c.Param("id")

	reel, err := h.reelRepository.GetReelByID(c.Request().Context(), reelID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
	}
	if reel.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own reels")
	}

	if err := h.reelRepository.DeleteReel(c.Request().Context(), reelID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/feed"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed           *feed.Service
	userRepository repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedSvc *feed.Service, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{feed: feedSvc, userRepository: userRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a visible post with author info attached
type EnrichedPost struct {
	feed.VisiblePost
	Author models.UserCompact `json:"author"`
}

// GetFeed returns the posts visible to the current user, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	posts, err := h.feed.VisiblePosts(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalItems := len(posts)
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	start := (page - 1) * limit
	if start > totalItems {
		start = totalItems
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}
	pagePosts := posts[start:end]

	// Attach author info, caching per unique author
	userCache := make(map[uint]models.UserCompact)
	enriched := make([]EnrichedPost, len(pagePosts))
	for i, p := range pagePosts {
		enriched[i] = EnrichedPost{VisiblePost: p}
		if author, ok := userCache[p.AuthorID]; ok {
			enriched[i].Author = author
			continue
		}
		user, err := h.userRepository.GetUserByID(p.AuthorID)
		if err == nil {
			compact := user.ToCompact()
			userCache[p.AuthorID] = compact
			enriched[i].Author = compact
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/notify"
	"github.com/ripplehq/ripple/backend/internal/relationship"
	"github.com/ripplehq/ripple/backend/internal/repositories"
	"github.com/ripplehq/ripple/backend/internal/suggestions"
	"gorm.io/gorm"
)

// RelationshipHandler handles HTTP requests for the friendship lifecycle
type RelationshipHandler struct {
	lifecycle      *relationship.Service
	suggestions    *suggestions.Service
	notifier       *notify.Service
	userRepository repositories.UserRepository
}

// NewRelationshipHandler creates a new RelationshipHandler
func NewRelationshipHandler(
	lifecycle *relationship.Service,
	suggestionSvc *suggestions.Service,
	notifier *notify.Service,
	userRepo repositories.UserRepository,
) *RelationshipHandler {
	return &RelationshipHandler{
		lifecycle:      lifecycle,
		suggestions:    suggestionSvc,
		notifier:       notifier,
		userRepository: userRepo,
	}
}

// RegisterRelationshipRoutes registers friendship-related routes
func (h *RelationshipHandler) RegisterRelationshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendRequest)
	g.GET("/friends/requests/pending", h.GetPendingRequests)
	g.PUT("/friends/request/:id/accept", h.AcceptRequest)
	g.DELETE("/friends/request/:id", h.RejectRequest)
	g.DELETE("/friends/request/to/:receiver_id", h.RevokeRequest)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.Unfriend)
	g.GET("/friends/suggestions", h.GetSuggestions)
	g.DELETE("/friends/suggestions/:id", h.HideSuggestion)
}

// SendRequest handles sending a friend request
func (h *RelationshipHandler) SendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if receiver exists
	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	edge, err := h.lifecycle.SendRequest(currentUserID, req.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, relationship.ErrSelfRequest):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, relationship.ErrAlreadyLinked):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	go h.notifier.FriendRequest(models.NotificationFriendRequest, currentUserID, req.ReceiverID, edge.ID)

	return c.JSON(http.StatusCreated, edge)
}

// GetPendingRequests retrieves pending friend requests addressed to the user
func (h *RelationshipHandler) GetPendingRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	requests, err := h.lifecycle.PendingInbound(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

// AcceptRequest accepts a pending friend request addressed to the user
func (h *RelationshipHandler) AcceptRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	edgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	edge, err := h.lifecycle.AcceptRequest(currentUserID, uint(edgeID))
	if err != nil {
		switch {
		case errors.Is(err, relationship.ErrEdgeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, relationship.ErrNotReceiver):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	go h.notifier.FriendRequest(models.NotificationFriendAccept, currentUserID, edge.RequesterID, edge.ID)

	return c.JSON(http.StatusOK, edge)
}

// RejectRequest rejects (deletes) a pending friend request
func (h *RelationshipHandler) RejectRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	edgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	if err := h.lifecycle.RejectRequest(currentUserID, uint(edgeID)); err != nil {
		switch {
		case errors.Is(err, relationship.ErrEdgeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, relationship.ErrNotReceiver):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// RevokeRequest withdraws the caller's own pending request
func (h *RelationshipHandler) RevokeRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	receiverID, err := strconv.ParseUint(c.Param("receiver_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid receiver ID")
	}

	if err := h.lifecycle.RevokeRequest(currentUserID, uint(receiverID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFriends retrieves the user's accepted friends with their profiles
func (h *RelationshipHandler) GetFriends(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	friendIDs, err := h.lifecycle.Friends(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, 0, len(friendIDs))
	for _, id := range friendIDs {
		user, err := h.userRepository.GetUserByID(id)
		if err != nil {
			continue
		}
		friends = append(friends, user.ToCompact())
	}
	return c.JSON(http.StatusOK, friends)
}

// Unfriend removes an accepted friendship
func (h *RelationshipHandler) Unfriend(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	otherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend user ID")
	}

	if err := h.lifecycle.Unfriend(currentUserID, uint(otherID)); err != nil {
		if errors.Is(err, relationship.ErrNotFriends) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSuggestions returns friend suggestions for the user
func (h *RelationshipHandler) GetSuggestions(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	users, err := h.suggestions.Suggestions(currentUserID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// HideSuggestion hides a suggested user without touching the store
func (h *RelationshipHandler) HideSuggestion(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	otherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	h.suggestions.Hide(currentUserID, uint(otherID))
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/chat"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHandler handles direct and group chat HTTP and websocket requests
type ChatHandler struct {
	messageRepository repositories.MessageRepository
	hub               *chat.Hub
	bridge            *chat.Bridge
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(messageRepo repositories.MessageRepository, hub *chat.Hub, bridge *chat.Bridge) *ChatHandler {
	return &ChatHandler{messageRepository: messageRepo, hub: hub, bridge: bridge}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chat/ws", h.Subscribe)
	g.POST("/chat/messages", h.SendMessage)
	g.GET("/chat/conversations/:user_id", h.GetConversation)
	g.GET("/chat/messages/search", h.SearchMessages)

	g.POST("/chat/groups", h.CreateGroup)
	g.GET("/chat/groups", h.GetGroups)
	g.POST("/chat/groups/:id/members", h.AddGroupMember)
	g.POST("/chat/groups/:id/messages", h.SendGroupMessage)
	g.GET("/chat/groups/:id/messages", h.GetGroupMessages)
}

// Subscribe upgrades the connection to a websocket and registers it with
// the hub for live message delivery. The connection is read until the
// client closes it; inbound frames are ignored, sending goes through REST.
func (h *ChatHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.hub.Register(currentUserID, conn)
	defer func() {
		h.hub.Unregister(currentUserID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// SendMessage persists a direct message and publishes it for live delivery.
// A publish failure never fails the request: the message is already stored.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message := &models.Message{
		SenderID:    currentUserID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
	}
	if err := h.messageRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.bridge.PublishDirect(c.Request().Context(), chat.Event{
		Kind:        "message",
		SenderID:    currentUserID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
	})

	return c.JSON(http.StatusCreated, message)
}

// GetConversation returns the message history with another user
func (h *ChatHandler) GetConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	otherID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := h.messageRepository.GetConversation(currentUserID, uint(otherID), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// SearchMessages searches the caller's messages. Tied to the request
// context so a newer keystroke aborting this request cancels the query.
func (h *ChatHandler) SearchMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	messages, err := h.messageRepository.SearchMessages(c.Request().Context(), currentUserID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// CreateGroup creates a chat group with the caller as owner and member
func (h *ChatHandler) CreateGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group := &models.Group{Name: req.Name, OwnerID: currentUserID}
	if err := h.messageRepository.CreateGroup(group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	members := append([]uint{currentUserID}, req.MemberIDs...)
	for _, id := range members {
		if err := h.messageRepository.AddGroupMember(&models.GroupMember{GroupID: group.ID, UserID: id}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, group)
}

// GetGroups returns the groups the caller belongs to
func (h *ChatHandler) GetGroups(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	groups, err := h.messageRepository.GetGroupsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

// AddGroupMember adds a user to a group the caller owns
func (h *ChatHandler) AddGroupMember(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid group ID")
	}

	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group, err := h.messageRepository.GetGroupByID(uint(groupID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if group.OwnerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the group owner can add members")
	}

	member := &models.GroupMember{GroupID: group.ID, UserID: req.UserID}
	if err := h.messageRepository.AddGroupMember(member); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, member)
}

// SendGroupMessage persists a group message and publishes it to the group's
// members.
func (h *ChatHandler) SendGroupMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid group ID")
	}

	var req models.SendGroupMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	isMember, err := h.messageRepository.IsGroupMember(uint(groupID), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isMember {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}

	message := &models.GroupMessage{
		GroupID:  uint(groupID),
		SenderID: currentUserID,
		Content:  req.Content,
		MediaURL: req.MediaURL,
	}
	if err := h.messageRepository.CreateGroupMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.bridge.PublishGroup(c.Request().Context(), chat.Event{
		Kind:     "group_message",
		SenderID: currentUserID,
		GroupID:  uint(groupID),
		Content:  req.Content,
		MediaURL: req.MediaURL,
	})

	return c.JSON(http.StatusCreated, message)
}

// GetGroupMessages returns a group's message history for its members
func (h *ChatHandler) GetGroupMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid group ID")
	}

	isMember, err := h.messageRepository.IsGroupMember(uint(groupID), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isMember {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := h.messageRepository.GetGroupMessages(uint(groupID), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/pkg/storage"
)

// MediaHandler handles media upload requests
type MediaHandler struct {
	uploader *storage.Uploader
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(uploader *storage.Uploader) *MediaHandler {
	return &MediaHandler{uploader: uploader}
}

// RegisterMediaRoutes registers media-related routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media", h.Upload)
}

// Upload accepts a multipart file and returns its public URL after storing
// it in the media bucket
func (h *MediaHandler) Upload(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.uploader.Upload(c.Request().Context(), "media", fileHeader.Filename, contentType, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

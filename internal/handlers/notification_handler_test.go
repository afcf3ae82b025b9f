package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeNotificationRepo holds notification rows keyed by ID
type fakeNotificationRepo struct {
	rows map[uint]*models.Notification
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error { return nil }
func (f *fakeNotificationRepo) CreateNotificationsBatch([]models.Notification) error {
	return nil
}
func (f *fakeNotificationRepo) GetByRecipientID(uint, int, int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotificationRepo) GetUnreadCount(uint) (int64, error) { return 0, nil }

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	n, ok := f.rows[notificationID]
	if !ok || n.RecipientID != recipientID {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for _, n := range f.rows {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func notificationTestContext(userID uint, path, paramValue string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(paramValue)
	c.Set("user", &models.JwtCustomClaims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{}})
	return c
}

func TestMarkAsReadScopedToRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{rows: map[uint]*models.Notification{
		5: {ID: 5, RecipientID: 1},
	}}
	h := NewNotificationHandler(repo, nil)

	// Someone else's notification reads as missing.
	err := h.MarkAsRead(notificationTestContext(2, "/notifications/5/read", "5"))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.False(t, repo.rows[5].IsRead)

	// The recipient marks it read.
	require.NoError(t, h.MarkAsRead(notificationTestContext(1, "/notifications/5/read", "5")))
	assert.True(t, repo.rows[5].IsRead)
}

func TestMarkAsReadUnknownNotification(t *testing.T) {
	repo := &fakeNotificationRepo{rows: map[uint]*models.Notification{}}
	h := NewNotificationHandler(repo, nil)

	err := h.MarkAsRead(notificationTestContext(1, "/notifications/99/read", "99"))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

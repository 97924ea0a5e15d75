package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/middleware"
	"github.com/noah-isme/workshop-ot-api/internal/models"
)

type notificationServiceMock struct {
	unread      int
	lastUserID  string
	lastQuery   dto.NotificationQuery
	lastRead    dto.MarkReadRequest
	lastUpdate  dto.UpdateNotificationSettingsRequest
	listCalled  bool
	readCalled  bool
	updateCalls int
}

func (m *notificationServiceMock) List(ctx context.Context, userID string, query dto.NotificationQuery) ([]models.Notification, *models.Pagination, error) {
	m.listCalled = true
	m.lastUserID, m.lastQuery = userID, query
	return []models.Notification{{ID: "n-1", UserID: userID}}, models.NewPagination(1, 20, 1), nil
}

func (m *notificationServiceMock) UnreadCount(ctx context.Context, userID string) (int, error) {
	m.lastUserID = userID
	return m.unread, nil
}

func (m *notificationServiceMock) MarkRead(ctx context.Context, userID string, req dto.MarkReadRequest) (int, error) {
	m.readCalled = true
	m.lastRead = req
	return len(req.IDs), nil
}

func (m *notificationServiceMock) Settings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	return models.DefaultNotificationSettings(userID), nil
}

func (m *notificationServiceMock) UpdateSettings(ctx context.Context, userID string, req dto.UpdateNotificationSettingsRequest) (*models.NotificationSettings, error) {
	m.updateCalls++
	m.lastUpdate = req
	return models.DefaultNotificationSettings(userID), nil
}

func newNotificationContext(method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

var techClaims = &models.JWTClaims{UserID: "tech-1", Role: models.RoleTechnician}

func TestNotificationHandlerUnreadCount(t *testing.T) {
	mockSvc := &notificationServiceMock{unread: 4}
	handler := NewNotificationHandler(mockSvc, 15*time.Second)

	c, w := newNotificationContext(http.MethodGet, "/notifications/unread-count", "", techClaims)
	handler.UnreadCount(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data dto.UnreadCountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data.Unread)
	assert.Equal(t, 15, body.Data.PollIntervalSeconds)
	assert.Equal(t, "tech-1", mockSvc.lastUserID)
}

func TestNotificationHandlerRequiresClaims(t *testing.T) {
	mockSvc := &notificationServiceMock{}
	handler := NewNotificationHandler(mockSvc, 0)

	c, w := newNotificationContext(http.MethodGet, "/notifications", "", nil)
	handler.List(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, mockSvc.listCalled)
}

func TestNotificationHandlerListParsesQuery(t *testing.T) {
	mockSvc := &notificationServiceMock{}
	handler := NewNotificationHandler(mockSvc, 0)

	c, w := newNotificationContext(http.MethodGet, "/notifications?unread=true&page=2&pageSize=abc", "", techClaims)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.NotificationQuery{UnreadOnly: true, Page: 2}, mockSvc.lastQuery)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestNotificationHandlerMarkRead(t *testing.T) {
	mockSvc := &notificationServiceMock{}
	handler := NewNotificationHandler(mockSvc, 0)

	c, w := newNotificationContext(http.MethodPost, "/notifications/read", `{"ids":["n-1","n-2"]}`, techClaims)
	handler.MarkRead(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"n-1", "n-2"}, mockSvc.lastRead.IDs)
	assert.JSONEq(t, `{"data":{"updated":2}}`, w.Body.String())

	mockSvc.readCalled = false
	c, w = newNotificationContext(http.MethodPost, "/notifications/read", `not json`, techClaims)
	handler.MarkRead(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.readCalled)
}

func TestNotificationHandlerSettings(t *testing.T) {
	mockSvc := &notificationServiceMock{}
	handler := NewNotificationHandler(mockSvc, 0)

	c, w := newNotificationContext(http.MethodGet, "/notifications/settings", "", techClaims)
	handler.Settings(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newNotificationContext(http.MethodPut, "/notifications/settings", `{"emailEnabled":false,"quietHoursStart":"22:00","quietHoursEnd":"06:00"}`, techClaims)
	handler.UpdateSettings(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, mockSvc.updateCalls)
	require.NotNil(t, mockSvc.lastUpdate.EmailEnabled)
	assert.False(t, *mockSvc.lastUpdate.EmailEnabled)
	assert.Equal(t, "22:00", *mockSvc.lastUpdate.QuietHoursStart)
	assert.Nil(t, mockSvc.lastUpdate.InAppEnabled)
}

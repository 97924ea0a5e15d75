package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
	"github.com/noah-isme/workshop-ot-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, userID string, query dto.NotificationQuery) ([]models.Notification, *models.Pagination, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, req dto.MarkReadRequest) (int, error)
	Settings(ctx context.Context, userID string) (*models.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID string, req dto.UpdateNotificationSettingsRequest) (*models.NotificationSettings, error)
}

// NotificationHandler exposes the caller's in-app inbox.
type NotificationHandler struct {
	service      notificationService
	pollInterval time.Duration
}

// NewNotificationHandler builds a new handler. pollInterval is advertised to
// clients polling the unread counter.
func NewNotificationHandler(service notificationService, pollInterval time.Duration) *NotificationHandler {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &NotificationHandler{service: service, pollInterval: pollInterval}
}

// List godoc
// @Summary List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	query := dto.NotificationQuery{
		UnreadOnly: c.Query("unread") == "true",
		Page:       atoiOrZero(c.Query("page")),
		PageSize:   atoiOrZero(c.Query("pageSize")),
	}
	items, pagination, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// UnreadCount godoc
// @Summary Unread counter for polling clients
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UnreadCountResponse{
		Unread:              count,
		PollIntervalSeconds: int(h.pollInterval / time.Second),
	}, nil)
}

// MarkRead godoc
// @Summary Mark notifications read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body dto.MarkReadRequest true "IDs or all"
// @Success 200 {object} response.Envelope
// @Router /notifications/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark-read payload"))
		return
	}
	updated, err := h.service.MarkRead(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MarkReadResponse{Updated: updated}, nil)
}

// Settings godoc
// @Summary Get the caller's notification preferences
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/settings [get]
func (h *NotificationHandler) Settings(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	settings, err := h.service.Settings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateSettings godoc
// @Summary Update the caller's notification preferences
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body dto.UpdateNotificationSettingsRequest true "Partial settings"
// @Success 200 {object} response.Envelope
// @Router /notifications/settings [put]
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dto.UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}
	settings, err := h.service.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

func (h *NotificationHandler) userID(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

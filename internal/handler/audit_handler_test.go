package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workshop-ot-api/internal/models"
)

type auditQueryServiceMock struct {
	filter   models.AuditFilter
	page     int
	pageSize int
	called   bool
}

func (m *auditQueryServiceMock) Query(ctx context.Context, filter models.AuditFilter, page, pageSize int) ([]models.AuditEvent, *models.Pagination, error) {
	m.called = true
	m.filter, m.page, m.pageSize = filter, page, pageSize
	return []models.AuditEvent{{ID: "audit-1"}}, models.NewPagination(page, pageSize, 1), nil
}

func TestAuditHandlerListBindsFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &auditQueryServiceMock{}
	handler := NewAuditHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/audit-events?entityType=work_order&entityId=wo-1&action=pause&from=2026-06-01T00:00:00Z&page=2&pageSize=10", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "work_order", mockSvc.filter.EntityType)
	assert.Equal(t, "wo-1", mockSvc.filter.EntityID)
	assert.Equal(t, models.AuditActionPause, mockSvc.filter.Action)
	require.NotNil(t, mockSvc.filter.From)
	assert.True(t, mockSvc.filter.From.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, mockSvc.filter.To)
	assert.Equal(t, 2, mockSvc.page)
	assert.Equal(t, 10, mockSvc.pageSize)
}

func TestAuditHandlerRejectsBadTimestamp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &auditQueryServiceMock{}
	handler := NewAuditHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/audit-events?from=yesterday", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.called)
}

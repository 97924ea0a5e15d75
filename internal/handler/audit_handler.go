package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
	"github.com/noah-isme/workshop-ot-api/pkg/response"
)

type auditQueryService interface {
	Query(ctx context.Context, filter models.AuditFilter, page, pageSize int) ([]models.AuditEvent, *models.Pagination, error)
}

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	service auditQueryService
}

// NewAuditHandler builds a new handler.
func NewAuditHandler(service auditQueryService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary Query audit events
// @Tags Audit
// @Produce json
// @Param actorId query string false "Actor"
// @Param entityType query string false "Entity type"
// @Param entityId query string false "Entity ID"
// @Param action query string false "Action"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /audit-events [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid audit query"))
		return
	}
	filter := models.AuditFilter{
		ActorID:    query.ActorID,
		EntityType: query.EntityType,
		EntityID:   query.EntityID,
		Action:     models.AuditAction(query.Action),
		From:       query.From,
		To:         query.To,
	}
	events, pagination, err := h.service.Query(c.Request.Context(), filter, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

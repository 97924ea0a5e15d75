package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
	"github.com/noah-isme/workshop-ot-api/pkg/response"
)

type workOrderService interface {
	Get(ctx context.Context, id string) (*models.WorkOrder, error)
	SLA(ctx context.Context, id string) (*dto.SLAResponse, error)
	Advance(ctx context.Context, id string, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error)
	Pause(ctx context.Context, id string, req dto.PauseWorkOrderRequest, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error)
	Resume(ctx context.Context, id string, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error)
	AssignTechnician(ctx context.Context, id string, req dto.AssignTechnicianRequest, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error)
	AddEvidence(ctx context.Context, id string, req dto.AddEvidenceRequest, actor models.Actor) (*models.Evidence, error)
	AddNote(ctx context.Context, id string, req dto.AddNoteRequest, actor models.Actor) (*models.Note, error)
	SetChecklistItem(ctx context.Context, id string, phase models.WorkOrderState, itemID string, req dto.SetChecklistItemRequest, actor models.Actor) (*models.ChecklistItem, error)
	Sign(ctx context.Context, id string, kind dto.SignatureKind, actor models.Actor) (*models.WorkOrder, error)
}

// WorkOrderHandler exposes the work order lifecycle endpoints.
type WorkOrderHandler struct {
	service workOrderService
}

// NewWorkOrderHandler builds a new handler.
func NewWorkOrderHandler(service workOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{service: service}
}

// Get godoc
// @Summary Get a work order with its checklists, evidence and notes
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) Get(c *gin.Context) {
	order, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// SLA godoc
// @Summary Report dwell time, overdue status and next-transition blockers
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} response.Envelope
// @Router /work-orders/{id}/sla [get]
func (h *WorkOrderHandler) SLA(c *gin.Context) {
	sla, err := h.service.SLA(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sla, nil)
}

// Advance godoc
// @Summary Move a work order to the next lifecycle state
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /work-orders/{id}/advance [post]
func (h *WorkOrderHandler) Advance(c *gin.Context) {
	order, event, err := h.service.Advance(c.Request.Context(), c.Param("id"), actorFromContext(c))
	respondTransition(c, order, event, err)
}

// Pause godoc
// @Summary Park a work order in WAITING
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param payload body dto.PauseWorkOrderRequest true "Pause reason"
// @Success 200 {object} response.Envelope
// @Router /work-orders/{id}/pause [post]
func (h *WorkOrderHandler) Pause(c *gin.Context) {
	var req dto.PauseWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pause payload"))
		return
	}
	order, event, err := h.service.Pause(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	respondTransition(c, order, event, err)
}

// Resume godoc
// @Summary Return a waiting work order to the state it paused from
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} response.Envelope
// @Router /work-orders/{id}/resume [post]
func (h *WorkOrderHandler) Resume(c *gin.Context) {
	order, event, err := h.service.Resume(c.Request.Context(), c.Param("id"), actorFromContext(c))
	respondTransition(c, order, event, err)
}

// Assign godoc
// @Summary Assign the responsible technician
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param payload body dto.AssignTechnicianRequest true "Technician"
// @Success 200 {object} response.Envelope
// @Router /work-orders/{id}/assign [post]
func (h *WorkOrderHandler) Assign(c *gin.Context) {
	var req dto.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	order, event, err := h.service.AssignTechnician(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	respondTransition(c, order, event, err)
}

// AddEvidence godoc
// @Summary Attach photo or video evidence
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param payload body dto.AddEvidenceRequest true "Evidence reference"
// @Success 201 {object} response.Envelope
// @Router /work-orders/{id}/evidence [post]
func (h *WorkOrderHandler) AddEvidence(c *gin.Context) {
	var req dto.AddEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evidence payload"))
		return
	}
	evidence, err := h.service.AddEvidence(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evidence)
}

// AddNote godoc
// @Summary Attach a technical note
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param payload body dto.AddNoteRequest true "Note"
// @Success 201 {object} response.Envelope
// @Router /work-orders/{id}/notes [post]
func (h *WorkOrderHandler) AddNote(c *gin.Context) {
	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}
	note, err := h.service.AddNote(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// SetChecklistItem godoc
// @Summary Mark a checklist item done or not done
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param phase path string true "INTAKE, DIAGNOSIS, TEARDOWN, REASSEMBLY or QUALITY_CHECK"
// @Param itemId path string true "Checklist item ID"
// @Param payload body dto.SetChecklistItemRequest true "Done flag"
// @Success 200 {object} response.Envelope
// @Router /work-orders/{id}/checklists/{phase}/items/{itemId} [put]
func (h *WorkOrderHandler) SetChecklistItem(c *gin.Context) {
	phase := models.WorkOrderState(strings.ToUpper(c.Param("phase")))
	if !phase.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown phase"))
		return
	}
	var req dto.SetChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid checklist payload"))
		return
	}
	item, err := h.service.SetChecklistItem(c.Request.Context(), c.Param("id"), phase, c.Param("itemId"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Sign godoc
// @Summary Record the intake or delivery signature
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Param kind path string true "intake or delivery"
// @Success 200 {object} response.Envelope
// @Router /work-orders/{id}/signatures/{kind} [post]
func (h *WorkOrderHandler) Sign(c *gin.Context) {
	kind := dto.SignatureKind(strings.ToLower(c.Param("kind")))
	order, err := h.service.Sign(c.Request.Context(), c.Param("id"), kind, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

func respondTransition(c *gin.Context, order *models.WorkOrder, event *models.DomainEvent, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TransitionResponse{WorkOrder: order, Event: event}, nil)
}

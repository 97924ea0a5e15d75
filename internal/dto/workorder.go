package dto

import (
	"time"

	"github.com/noah-isme/workshop-ot-api/internal/models"
)

// PauseWorkOrderRequest parks an order in WAITING.
type PauseWorkOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// AssignTechnicianRequest sets the responsible technician.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technicianId" validate:"required"`
}

// AddEvidenceRequest attaches a media reference.
type AddEvidenceRequest struct {
	Subtype models.EvidenceSubtype `json:"subtype" validate:"required,evidence_subtype"`
	Kind    models.EvidenceKind    `json:"kind" validate:"omitempty,oneof=photo video"`
	URL     string                 `json:"url" validate:"required,url"`
}

// AddNoteRequest attaches a technical note.
type AddNoteRequest struct {
	Text  string                 `json:"text" validate:"required,max=4000"`
	Phase *models.WorkOrderState `json:"phase,omitempty"`
}

// SetChecklistItemRequest toggles a checklist item.
type SetChecklistItemRequest struct {
	Done *bool `json:"done" validate:"required"`
}

// SignatureKind names the signatures the lifecycle gates read.
type SignatureKind string

const (
	SignatureIntake   SignatureKind = "intake"
	SignatureDelivery SignatureKind = "delivery"
)

// TransitionResponse is returned by every lifecycle transition.
type TransitionResponse struct {
	WorkOrder *models.WorkOrder   `json:"workOrder"`
	Event     *models.DomainEvent `json:"event"`
}

// SLAResponse reports dwell and overdue status for an order.
type SLAResponse struct {
	WorkOrderID  string                `json:"workOrderId"`
	State        models.WorkOrderState `json:"state"`
	EnteredAt    *time.Time            `json:"enteredAt,omitempty"`
	DwellSeconds int64                 `json:"dwellSeconds"`
	Deadline     *time.Time            `json:"deadline,omitempty"`
	Overdue      bool                  `json:"overdue"`
	NextState    models.WorkOrderState `json:"nextState,omitempty"`
	Blockers     []string              `json:"blockers,omitempty"`
}

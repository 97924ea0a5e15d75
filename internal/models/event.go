package models

import "time"

// DomainEventKind tags the work-order events emitted by transitions.
type DomainEventKind string

const (
	EventStatusChanged DomainEventKind = "status_changed"
	EventPaused        DomainEventKind = "paused"
	EventResumed       DomainEventKind = "resumed"
	EventAssigned      DomainEventKind = "assigned"
)

// DomainEvent is returned by every successful work-order transition.
type DomainEvent struct {
	Kind                 DomainEventKind `json:"kind"`
	WorkOrderID          string          `json:"workOrderId"`
	From                 WorkOrderState  `json:"from"`
	To                   WorkOrderState  `json:"to"`
	ActorID              string          `json:"actorId"`
	Reason               string          `json:"reason,omitempty"`
	PreviousTechnicianID *string         `json:"previousTechnicianId,omitempty"`
	TechnicianID         *string         `json:"technicianId,omitempty"`
	Timestamp            time.Time       `json:"timestamp"`
}

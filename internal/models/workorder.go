package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// WorkOrderState captures the lifecycle phases of a service ticket.
type WorkOrderState string

const (
	StateIntake           WorkOrderState = "INTAKE"
	StateDiagnosis        WorkOrderState = "DIAGNOSIS"
	StateQuotePending     WorkOrderState = "QUOTE_PENDING"
	StateTeardown         WorkOrderState = "TEARDOWN"
	StateWaiting          WorkOrderState = "WAITING"
	StateReassembly       WorkOrderState = "REASSEMBLY"
	StateQualityCheck     WorkOrderState = "QUALITY_CHECK"
	StateReadyForDelivery WorkOrderState = "READY_FOR_DELIVERY"
	StateDelivered        WorkOrderState = "DELIVERED"
)

// Valid reports whether s is a known state.
func (s WorkOrderState) Valid() bool {
	switch s {
	case StateIntake, StateDiagnosis, StateQuotePending, StateTeardown, StateWaiting,
		StateReassembly, StateQualityCheck, StateReadyForDelivery, StateDelivered:
		return true
	}
	return false
}

// RequiresChecklist reports whether the phase carries a checklist.
func (s WorkOrderState) RequiresChecklist() bool {
	switch s {
	case StateIntake, StateTeardown, StateReassembly, StateQualityCheck:
		return true
	}
	return false
}

// WorkOrderPriority ranks urgency.
type WorkOrderPriority string

const (
	PriorityLow    WorkOrderPriority = "LOW"
	PriorityMedium WorkOrderPriority = "MEDIUM"
	PriorityHigh   WorkOrderPriority = "HIGH"
	PriorityUrgent WorkOrderPriority = "URGENT"
)

// StateTimestamps records when the order last entered each state.
type StateTimestamps map[WorkOrderState]time.Time

// Value implements driver.Valuer.
func (t StateTimestamps) Value() (driver.Value, error) {
	if len(t) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *StateTimestamps) Scan(value interface{}) error {
	if value == nil {
		*t = make(StateTimestamps)
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("state timestamps: unsupported column type")
	}
	result := make(StateTimestamps)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return fmt.Errorf("state timestamps: %w", err)
		}
	}
	*t = result
	return nil
}

// Clone returns an independent copy.
func (t StateTimestamps) Clone() StateTimestamps {
	out := make(StateTimestamps, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// WorkOrder is a vehicle service ticket.
type WorkOrder struct {
	ID                   string            `db:"id" json:"id"`
	Code                 string            `db:"code" json:"code"`
	VehicleID            string            `db:"vehicle_id" json:"vehicleId"`
	CustomerID           string            `db:"customer_id" json:"customerId"`
	AdvisorID            *string           `db:"advisor_id" json:"advisorId,omitempty"`
	AssignedTechnicianID *string           `db:"assigned_technician_id" json:"assignedTechnicianId,omitempty"`
	Priority             WorkOrderPriority `db:"priority" json:"priority"`
	State                WorkOrderState    `db:"state" json:"state"`
	ResumeState          *WorkOrderState   `db:"resume_state" json:"resumeState,omitempty"`
	WaitingReason        *string           `db:"waiting_reason" json:"waitingReason,omitempty"`
	PausedAt             *time.Time        `db:"paused_at" json:"pausedAt,omitempty"`
	SLADeadline          *time.Time        `db:"sla_deadline" json:"slaDeadline,omitempty"`
	IntakeSignedBy       *string           `db:"intake_signed_by" json:"intakeSignedBy,omitempty"`
	IntakeSignedAt       *time.Time        `db:"intake_signed_at" json:"intakeSignedAt,omitempty"`
	DeliverySignedBy     *string           `db:"delivery_signed_by" json:"deliverySignedBy,omitempty"`
	DeliverySignedAt     *time.Time        `db:"delivery_signed_at" json:"deliverySignedAt,omitempty"`
	StateEnteredAt       StateTimestamps   `db:"state_entered_at" json:"stateEnteredAt"`
	Version              int               `db:"version" json:"version"`
	CreatedAt            time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time         `db:"updated_at" json:"updatedAt"`

	Checklists map[WorkOrderState]*Checklist `db:"-" json:"checklists,omitempty"`
	Evidence   []Evidence                    `db:"-" json:"evidence,omitempty"`
	Notes      []Note                        `db:"-" json:"notes,omitempty"`
}

// Clone deep-copies the mutable parts of the order so a transition can be
// evaluated without touching the caller's snapshot.
func (w *WorkOrder) Clone() *WorkOrder {
	if w == nil {
		return nil
	}
	out := *w
	out.StateEnteredAt = w.StateEnteredAt.Clone()
	if w.Checklists != nil {
		out.Checklists = make(map[WorkOrderState]*Checklist, len(w.Checklists))
		for phase, list := range w.Checklists {
			out.Checklists[phase] = list.Clone()
		}
	}
	out.Evidence = append([]Evidence(nil), w.Evidence...)
	out.Notes = append([]Note(nil), w.Notes...)
	return &out
}

// Checklist is the set of items attached to one phase.
type Checklist struct {
	Phase WorkOrderState  `json:"phase"`
	Items []ChecklistItem `json:"items"`
}

// Complete holds iff every item is done. An empty checklist is complete.
func (c *Checklist) Complete() bool {
	if c == nil {
		return true
	}
	for _, item := range c.Items {
		if !item.Done {
			return false
		}
	}
	return true
}

// Missing returns the 1-based positions of items not yet done.
func (c *Checklist) Missing() []int {
	if c == nil {
		return nil
	}
	var missing []int
	for i, item := range c.Items {
		if !item.Done {
			missing = append(missing, i+1)
		}
	}
	return missing
}

// Clone returns an independent copy.
func (c *Checklist) Clone() *Checklist {
	if c == nil {
		return nil
	}
	return &Checklist{Phase: c.Phase, Items: append([]ChecklistItem(nil), c.Items...)}
}

// ItemByCode returns the first item with the given code.
func (c *Checklist) ItemByCode(code string) (ChecklistItem, bool) {
	if c == nil {
		return ChecklistItem{}, false
	}
	for _, item := range c.Items {
		if item.Code == code {
			return item, true
		}
	}
	return ChecklistItem{}, false
}

// ChecklistItem is a single verifiable step.
type ChecklistItem struct {
	ID          string         `db:"id" json:"id"`
	WorkOrderID string         `db:"work_order_id" json:"workOrderId"`
	Phase       WorkOrderState `db:"phase" json:"phase"`
	Code        string         `db:"code" json:"code"`
	Description string         `db:"description" json:"description"`
	Position    int            `db:"position" json:"position"`
	Done        bool           `db:"done" json:"done"`
	AuthorID    *string        `db:"author_id" json:"authorId,omitempty"`
	CompletedAt *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
}

// Intake checklist codes the intake gate verifies.
const (
	ChecklistCodeVIN       = "vin"
	ChecklistCodeOdometer  = "odometer"
	ChecklistCodeFuelLevel = "fuel_level"
)

// EvidenceSubtype classifies a photo or video.
type EvidenceSubtype string

const (
	EvidenceFront          EvidenceSubtype = "front"
	EvidenceFrontLeft      EvidenceSubtype = "front_left"
	EvidenceSideLeft       EvidenceSubtype = "side_left"
	EvidenceRearLeft       EvidenceSubtype = "rear_left"
	EvidenceRear           EvidenceSubtype = "rear"
	EvidenceRearRight      EvidenceSubtype = "rear_right"
	EvidenceSideRight      EvidenceSubtype = "side_right"
	EvidenceFrontRight     EvidenceSubtype = "front_right"
	EvidenceVIN            EvidenceSubtype = "vin"
	EvidenceOdometer       EvidenceSubtype = "odometer"
	EvidenceFuel           EvidenceSubtype = "fuel"
	EvidenceDamageDetail   EvidenceSubtype = "damage_detail"
	EvidenceTeardownBefore EvidenceSubtype = "teardown_before"
	EvidenceReassembly     EvidenceSubtype = "reassembly_after"
	EvidenceQualityCheck   EvidenceSubtype = "quality_check"
	EvidenceOther          EvidenceSubtype = "other"
)

// CoverageSubtypes lists the twelve subtypes of 360° intake coverage, in capture order.
var CoverageSubtypes = []EvidenceSubtype{
	EvidenceFront,
	EvidenceFrontLeft,
	EvidenceSideLeft,
	EvidenceRearLeft,
	EvidenceRear,
	EvidenceRearRight,
	EvidenceSideRight,
	EvidenceFrontRight,
	EvidenceVIN,
	EvidenceOdometer,
	EvidenceFuel,
	EvidenceDamageDetail,
}

// Valid reports whether the subtype is part of the fixed enumeration.
func (s EvidenceSubtype) Valid() bool {
	switch s {
	case EvidenceTeardownBefore, EvidenceReassembly, EvidenceQualityCheck, EvidenceOther:
		return true
	}
	for _, c := range CoverageSubtypes {
		if c == s {
			return true
		}
	}
	return false
}

// EvidenceKind distinguishes media types.
type EvidenceKind string

const (
	EvidencePhoto EvidenceKind = "photo"
	EvidenceVideo EvidenceKind = "video"
)

// Evidence is a media reference attached to a work order.
type Evidence struct {
	ID          string          `db:"id" json:"id"`
	WorkOrderID string          `db:"work_order_id" json:"workOrderId"`
	Subtype     EvidenceSubtype `db:"subtype" json:"subtype"`
	Kind        EvidenceKind    `db:"kind" json:"kind"`
	URL         string          `db:"url" json:"url"`
	AuthorID    string          `db:"author_id" json:"authorId"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// MissingCoverage returns the coverage subtypes absent from items, in capture order.
func MissingCoverage(items []Evidence) []EvidenceSubtype {
	present := make(map[EvidenceSubtype]struct{}, len(items))
	for _, item := range items {
		present[item.Subtype] = struct{}{}
	}
	missing := make([]EvidenceSubtype, 0)
	for _, subtype := range CoverageSubtypes {
		if _, ok := present[subtype]; !ok {
			missing = append(missing, subtype)
		}
	}
	return missing
}

// CoverageComplete holds iff all twelve coverage subtypes are present at least once.
func CoverageComplete(items []Evidence) bool {
	return len(MissingCoverage(items)) == 0
}

// Note is a technician remark.
type Note struct {
	ID          string          `db:"id" json:"id"`
	WorkOrderID string          `db:"work_order_id" json:"workOrderId"`
	Text        string          `db:"text" json:"text"`
	AuthorID    string          `db:"author_id" json:"authorId"`
	Phase       *WorkOrderState `db:"phase" json:"phase,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// WorkOrderFilter constrains listing queries.
type WorkOrderFilter struct {
	States        []WorkOrderState
	TechnicianID  string
	OverdueBefore *time.Time
	Limit         int
	Offset        int
}

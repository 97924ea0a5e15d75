package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

// gateFunc returns the human-readable conditions still unmet for a transition.
// An empty result means the gate passes.
type gateFunc func(order *models.WorkOrder) []string

type lifecycleStep struct {
	next models.WorkOrderState
	gate gateFunc
}

// lifecycle is the only place the forward topology and its gates are defined.
// WAITING is orthogonal and handled by Pause/Resume.
var lifecycle = map[models.WorkOrderState]lifecycleStep{
	models.StateIntake:           {next: models.StateDiagnosis, gate: intakeGate},
	models.StateDiagnosis:        {next: models.StateQuotePending},
	models.StateQuotePending:     {next: models.StateTeardown},
	models.StateTeardown:         {next: models.StateReassembly, gate: teardownGate},
	models.StateReassembly:       {next: models.StateQualityCheck, gate: checklistGate(models.StateReassembly)},
	models.StateQualityCheck:     {next: models.StateReadyForDelivery, gate: checklistGate(models.StateQualityCheck)},
	models.StateReadyForDelivery: {next: models.StateDelivered, gate: deliveryGate},
}

// WorkOrderStateMachine applies lifecycle transitions to work-order snapshots.
// It never mutates its input: every operation works on a clone and returns the
// new snapshot only when the whole transition succeeded.
type WorkOrderStateMachine struct {
	now func() time.Time
}

// NewWorkOrderStateMachine builds a machine using the given clock (UTC wall clock when nil).
func NewWorkOrderStateMachine(now func() time.Time) *WorkOrderStateMachine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &WorkOrderStateMachine{now: now}
}

// Successor returns the forward successor of state, if any.
func (m *WorkOrderStateMachine) Successor(state models.WorkOrderState) (models.WorkOrderState, bool) {
	step, ok := lifecycle[state]
	if !ok {
		return "", false
	}
	return step.next, true
}

// Check reports the next state and the unmet conditions without transitioning.
func (m *WorkOrderStateMachine) Check(order *models.WorkOrder) (models.WorkOrderState, []string, error) {
	if order == nil {
		return "", nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
	}
	switch order.State {
	case models.StateDelivered:
		return "", nil, appErrors.InvalidTransition("work order already delivered")
	case models.StateWaiting:
		return "", nil, appErrors.InvalidTransition("work order is waiting; resume it before advancing")
	}
	step, ok := lifecycle[order.State]
	if !ok {
		return "", nil, appErrors.InvalidTransition(fmt.Sprintf("unknown work order state %q", order.State))
	}
	var missing []string
	if step.gate != nil {
		missing = step.gate(order)
	}
	return step.next, missing, nil
}

// Advance moves the order to its successor state when the gate is satisfied.
func (m *WorkOrderStateMachine) Advance(order *models.WorkOrder, actorID string) (*models.WorkOrder, *models.DomainEvent, error) {
	next, missing, err := m.Check(order)
	if err != nil {
		return nil, nil, err
	}
	if len(missing) > 0 {
		return nil, nil, appErrors.GateNotSatisfied(string(next), missing)
	}

	now := m.now()
	updated := order.Clone()
	updated.State = next
	if updated.StateEnteredAt == nil {
		updated.StateEnteredAt = make(models.StateTimestamps)
	}
	updated.StateEnteredAt[next] = now
	updated.UpdatedAt = now

	return updated, &models.DomainEvent{
		Kind:        models.EventStatusChanged,
		WorkOrderID: order.ID,
		From:        order.State,
		To:          next,
		ActorID:     actorID,
		Timestamp:   now,
	}, nil
}

// Pause parks the order in WAITING and remembers where to resume.
func (m *WorkOrderStateMachine) Pause(order *models.WorkOrder, reason, actorID string) (*models.WorkOrder, *models.DomainEvent, error) {
	if order == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
	}
	switch order.State {
	case models.StateDelivered:
		return nil, nil, appErrors.InvalidTransition("delivered work orders cannot be paused")
	case models.StateWaiting:
		return nil, nil, appErrors.InvalidTransition("work order is already waiting")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "pause reason is required")
	}

	now := m.now()
	from := order.State
	updated := order.Clone()
	updated.ResumeState = &from
	updated.WaitingReason = &reason
	updated.PausedAt = &now
	updated.State = models.StateWaiting
	if updated.StateEnteredAt == nil {
		updated.StateEnteredAt = make(models.StateTimestamps)
	}
	updated.StateEnteredAt[models.StateWaiting] = now
	updated.UpdatedAt = now

	return updated, &models.DomainEvent{
		Kind:        models.EventPaused,
		WorkOrderID: order.ID,
		From:        from,
		To:          models.StateWaiting,
		ActorID:     actorID,
		Reason:      reason,
		Timestamp:   now,
	}, nil
}

// Resume returns a waiting order to the state it was paused from.
// The restored state keeps its original entry timestamp, so dwell time spans the pause.
func (m *WorkOrderStateMachine) Resume(order *models.WorkOrder, actorID string) (*models.WorkOrder, *models.DomainEvent, error) {
	if order == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
	}
	if order.State != models.StateWaiting {
		return nil, nil, appErrors.InvalidTransition(fmt.Sprintf("work order is %s, not waiting", order.State))
	}
	if order.ResumeState == nil || !order.ResumeState.Valid() || *order.ResumeState == models.StateWaiting {
		return nil, nil, appErrors.InvalidTransition("work order has no state to resume to")
	}

	now := m.now()
	target := *order.ResumeState
	updated := order.Clone()
	updated.State = target
	updated.ResumeState = nil
	updated.WaitingReason = nil
	updated.PausedAt = nil
	if updated.StateEnteredAt == nil {
		updated.StateEnteredAt = make(models.StateTimestamps)
	}
	if _, ok := updated.StateEnteredAt[target]; !ok {
		updated.StateEnteredAt[target] = now
	}
	updated.UpdatedAt = now

	return updated, &models.DomainEvent{
		Kind:        models.EventResumed,
		WorkOrderID: order.ID,
		From:        models.StateWaiting,
		To:          target,
		ActorID:     actorID,
		Timestamp:   now,
	}, nil
}

// AssignTechnician sets the responsible technician. State is left untouched.
func (m *WorkOrderStateMachine) AssignTechnician(order *models.WorkOrder, technicianID, actorID string) (*models.WorkOrder, *models.DomainEvent, error) {
	if order == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
	}
	technicianID = strings.TrimSpace(technicianID)
	if technicianID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "technicianId is required")
	}

	now := m.now()
	updated := order.Clone()
	var previous *string
	if order.AssignedTechnicianID != nil {
		prev := *order.AssignedTechnicianID
		previous = &prev
	}
	updated.AssignedTechnicianID = &technicianID
	updated.UpdatedAt = now

	return updated, &models.DomainEvent{
		Kind:                 models.EventAssigned,
		WorkOrderID:          order.ID,
		From:                 order.State,
		To:                   order.State,
		ActorID:              actorID,
		PreviousTechnicianID: previous,
		TechnicianID:         &technicianID,
		Timestamp:            now,
	}, nil
}

// DwellTime is the time elapsed since the order entered its current state.
func (m *WorkOrderStateMachine) DwellTime(order *models.WorkOrder) time.Duration {
	if order == nil {
		return 0
	}
	entered, ok := order.StateEnteredAt[order.State]
	if !ok || entered.IsZero() {
		entered = order.CreatedAt
	}
	if entered.IsZero() {
		return 0
	}
	return m.now().Sub(entered)
}

// IsOverdue holds when an SLA deadline exists and has passed.
func (m *WorkOrderStateMachine) IsOverdue(order *models.WorkOrder) bool {
	if order == nil || order.SLADeadline == nil {
		return false
	}
	return m.now().After(*order.SLADeadline)
}

func intakeGate(order *models.WorkOrder) []string {
	var missing []string
	if gaps := models.MissingCoverage(order.Evidence); len(gaps) > 0 {
		names := make([]string, len(gaps))
		for i, g := range gaps {
			names[i] = string(g)
		}
		missing = append(missing, fmt.Sprintf("missing %d of %d evidence angles: %s",
			len(gaps), len(models.CoverageSubtypes), strings.Join(names, ", ")))
	}
	if order.IntakeSignedAt == nil {
		missing = append(missing, "intake signature missing")
	}
	intake := order.Checklists[models.StateIntake]
	for _, code := range []string{models.ChecklistCodeVIN, models.ChecklistCodeOdometer, models.ChecklistCodeFuelLevel} {
		item, ok := intake.ItemByCode(code)
		if !ok || !item.Done {
			missing = append(missing, fmt.Sprintf("intake checklist item %s incomplete", code))
		}
	}
	return missing
}

func teardownGate(order *models.WorkOrder) []string {
	missing := checklistGate(models.StateTeardown)(order)
	hasBefore := false
	for _, e := range order.Evidence {
		if e.Subtype == models.EvidenceTeardownBefore {
			hasBefore = true
			break
		}
	}
	if !hasBefore {
		missing = append(missing, fmt.Sprintf("missing %s evidence", models.EvidenceTeardownBefore))
	}
	return missing
}

// checklistGate requires the phase checklist to exist with every item done.
// Items are reported by their 1-based position in the checklist.
func checklistGate(phase models.WorkOrderState) gateFunc {
	return func(order *models.WorkOrder) []string {
		list, ok := order.Checklists[phase]
		if !ok || list == nil {
			return []string{fmt.Sprintf("%s checklist missing", strings.ToLower(string(phase)))}
		}
		var missing []string
		for _, pos := range list.Missing() {
			missing = append(missing, fmt.Sprintf("checklist item %d incomplete", pos))
		}
		return missing
	}
}

func deliveryGate(order *models.WorkOrder) []string {
	if order.DeliverySignedAt == nil {
		return []string{"delivery signature missing"}
	}
	return nil
}

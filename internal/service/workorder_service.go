package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	"github.com/noah-isme/workshop-ot-api/internal/repository"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

type workOrderStore interface {
	GetByID(ctx context.Context, id string) (*models.WorkOrder, error)
	UpdateLifecycle(ctx context.Context, order *models.WorkOrder, expectedVersion int) error
	ListOverdue(ctx context.Context, now time.Time, after *repository.OverdueCursor, limit int) ([]models.WorkOrder, error)
	AddEvidence(ctx context.Context, evidence *models.Evidence) error
	AddNote(ctx context.Context, note *models.Note) error
	SetChecklistItem(ctx context.Context, params repository.SetChecklistItemParams) (*models.ChecklistItem, error)
	SetSignature(ctx context.Context, workOrderID string, kind dto.SignatureKind, signerID string, at time.Time) error
}

type auditRecorder interface {
	Record(ctx context.Context, input models.AuditEventInput) *models.AuditEvent
}

type notificationDispatcher interface {
	CreateBulk(ctx context.Context, userIDs []string, params dto.NotificationParams) ([]*models.Notification, error)
}

type transitionMetrics interface {
	RecordTransition(kind models.DomainEventKind, from, to models.WorkOrderState, result string)
}

// WorkOrderService runs lifecycle transitions against persisted work orders.
// Each transition holds the per-order lock across load, gate evaluation and
// write; the write also checks the row version so a writer that bypassed the
// lock cannot clobber a newer state.
type WorkOrderService struct {
	repo      workOrderStore
	machine   *WorkOrderStateMachine
	locker    Locker
	audit     auditRecorder
	notifier  notificationDispatcher
	metrics   transitionMetrics
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// WorkOrderServiceOption configures the service.
type WorkOrderServiceOption func(*WorkOrderService)

// WithWorkOrderLocker overrides the in-process lock.
func WithWorkOrderLocker(locker Locker) WorkOrderServiceOption {
	return func(s *WorkOrderService) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithWorkOrderNotifier sets the notification dispatcher for lifecycle events.
func WithWorkOrderNotifier(notifier notificationDispatcher) WorkOrderServiceOption {
	return func(s *WorkOrderService) {
		s.notifier = notifier
	}
}

// WithWorkOrderMetrics sets the transition metrics sink.
func WithWorkOrderMetrics(metrics transitionMetrics) WorkOrderServiceOption {
	return func(s *WorkOrderService) {
		s.metrics = metrics
	}
}

// WithWorkOrderClock overrides the clock used by the service and its state machine.
func WithWorkOrderClock(now func() time.Time) WorkOrderServiceOption {
	return func(s *WorkOrderService) {
		if now != nil {
			s.now = now
			s.machine = NewWorkOrderStateMachine(now)
		}
	}
}

// NewWorkOrderService constructs the service with an in-process lock and UTC clock.
func NewWorkOrderService(repo workOrderStore, audit auditRecorder, logger *zap.Logger, opts ...WorkOrderServiceOption) *WorkOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := func() time.Time { return time.Now().UTC() }
	svc := &WorkOrderService{
		repo:      repo,
		machine:   NewWorkOrderStateMachine(now),
		locker:    NewKeyedMutex(),
		audit:     audit,
		validator: newWorkOrderValidator(),
		logger:    logger,
		now:       now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func newWorkOrderValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("evidence_subtype", func(fl validator.FieldLevel) bool {
		return models.EvidenceSubtype(fl.Field().String()).Valid()
	})
	return v
}

// Machine exposes the state machine for read-only queries.
func (s *WorkOrderService) Machine() *WorkOrderStateMachine {
	return s.machine
}

// Get loads a work order with checklists, evidence and notes.
func (s *WorkOrderService) Get(ctx context.Context, id string) (*models.WorkOrder, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
		}
		return nil, appErrors.Storage(err, "failed to load work order")
	}
	return order, nil
}

// Advance moves the order to its successor state.
func (s *WorkOrderService) Advance(ctx context.Context, id string, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error) {
	return s.transition(ctx, id, actor, models.EventStatusChanged, func(order *models.WorkOrder) (*models.WorkOrder, *models.DomainEvent, error) {
		return s.machine.Advance(order, actor.ID)
	})
}

// Pause parks the order in WAITING.
func (s *WorkOrderService) Pause(ctx context.Context, id string, req dto.PauseWorkOrderRequest, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error) {
	return s.transition(ctx, id, actor, models.EventPaused, func(order *models.WorkOrder) (*models.WorkOrder, *models.DomainEvent, error) {
		updated, event, err := s.machine.Pause(order, req.Reason, actor.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := s.validator.Struct(req); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pause payload")
		}
		return updated, event, nil
	})
}

// Resume returns a waiting order to the state it was paused from.
func (s *WorkOrderService) Resume(ctx context.Context, id string, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error) {
	return s.transition(ctx, id, actor, models.EventResumed, func(order *models.WorkOrder) (*models.WorkOrder, *models.DomainEvent, error) {
		return s.machine.Resume(order, actor.ID)
	})
}

// AssignTechnician sets the responsible technician without changing state.
func (s *WorkOrderService) AssignTechnician(ctx context.Context, id string, req dto.AssignTechnicianRequest, actor models.Actor) (*models.WorkOrder, *models.DomainEvent, error) {
	return s.transition(ctx, id, actor, models.EventAssigned, func(order *models.WorkOrder) (*models.WorkOrder, *models.DomainEvent, error) {
		updated, event, err := s.machine.AssignTechnician(order, req.TechnicianID, actor.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := s.validator.Struct(req); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
		}
		return updated, event, nil
	})
}

type transitionFunc func(order *models.WorkOrder) (*models.WorkOrder, *models.DomainEvent, error)

func (s *WorkOrderService) transition(ctx context.Context, id string, actor models.Actor, kind models.DomainEventKind, apply transitionFunc) (*models.WorkOrder, *models.DomainEvent, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return nil, nil, appErrors.ErrUnauthorized
	}
	unlock, err := s.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "work order is busy, retry")
	}
	defer unlock()

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	updated, event, err := apply(order)
	if err != nil {
		s.recordTransition(kind, order.State, "", TransitionRejected)
		return nil, nil, err
	}

	if err := s.repo.UpdateLifecycle(ctx, updated, order.Version); err != nil {
		s.recordTransition(kind, event.From, event.To, TransitionFailed)
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, nil, appErrors.Clone(appErrors.ErrConflict, "work order was modified concurrently, reload and retry")
		}
		return nil, nil, appErrors.Storage(err, "failed to update work order")
	}
	updated.Version = order.Version + 1
	s.recordTransition(kind, event.From, event.To, TransitionApplied)

	s.audit.Record(ctx, auditInputForEvent(order, updated, event, actor))
	s.notifyEvent(ctx, updated, event)

	return updated, event, nil
}

// AddEvidence attaches a photo or video reference.
func (s *WorkOrderService) AddEvidence(ctx context.Context, id string, req dto.AddEvidenceRequest, actor models.Actor) (*models.Evidence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evidence payload")
	}
	kind := req.Kind
	if kind == "" {
		kind = models.EvidencePhoto
	}
	var evidence *models.Evidence
	err := s.withOpenOrder(ctx, id, func(order *models.WorkOrder) error {
		evidence = &models.Evidence{
			WorkOrderID: order.ID,
			Subtype:     req.Subtype,
			Kind:        kind,
			URL:         req.URL,
			AuthorID:    actor.ID,
			CreatedAt:   s.now(),
		}
		if err := s.repo.AddEvidence(ctx, evidence); err != nil {
			return appErrors.Storage(err, "failed to store evidence")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditEventInput{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionUpload,
		EntityType: models.EntityWorkOrder,
		EntityID:   id,
		Extra:      map[string]string{"file": string(evidence.Subtype) + " " + string(evidence.Kind)},
		Meta:       models.AuditMeta{"evidenceId": evidence.ID, "subtype": evidence.Subtype, "url": evidence.URL},
	})
	return evidence, nil
}

// AddNote records a technical note, optionally tagged with a phase.
func (s *WorkOrderService) AddNote(ctx context.Context, id string, req dto.AddNoteRequest, actor models.Actor) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if req.Phase != nil && !req.Phase.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown phase")
	}
	var note *models.Note
	err := s.withOpenOrder(ctx, id, func(order *models.WorkOrder) error {
		note = &models.Note{
			WorkOrderID: order.ID,
			Text:        strings.TrimSpace(req.Text),
			AuthorID:    actor.ID,
			Phase:       req.Phase,
			CreatedAt:   s.now(),
		}
		if err := s.repo.AddNote(ctx, note); err != nil {
			return appErrors.Storage(err, "failed to store note")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditEventInput{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionCreate,
		EntityType: models.EntityWorkOrder,
		EntityID:   id,
		Summary:    SummaryFor(models.AuditActionCreate, "note on "+models.EntityWorkOrder, id, actor.Name, nil),
		Meta:       models.AuditMeta{"noteId": note.ID},
	})
	return note, nil
}

// SetChecklistItem marks a checklist item done or not done.
func (s *WorkOrderService) SetChecklistItem(ctx context.Context, id string, phase models.WorkOrderState, itemID string, req dto.SetChecklistItemRequest, actor models.Actor) (*models.ChecklistItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid checklist payload")
	}
	if !phase.RequiresChecklist() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("phase %s has no checklist", phase))
	}
	done := *req.Done
	var item *models.ChecklistItem
	err := s.withOpenOrder(ctx, id, func(order *models.WorkOrder) error {
		params := repository.SetChecklistItemParams{
			WorkOrderID: order.ID,
			Phase:       phase,
			ItemID:      itemID,
			Done:        done,
		}
		if done {
			now := s.now()
			params.AuthorID = &actor.ID
			params.CompletedAt = &now
		}
		var err error
		item, err = s.repo.SetChecklistItem(ctx, params)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "checklist item not found")
			}
			return appErrors.Storage(err, "failed to update checklist item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditEventInput{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionUpdate,
		EntityType: models.EntityWorkOrder,
		EntityID:   id,
		Diff:       models.AuditDiff{"checklist." + itemID + ".done": {From: !done, To: done}},
		Meta:       models.AuditMeta{"phase": phase, "itemId": itemID},
	})
	return item, nil
}

// SignIntake records the customer's intake signature.
func (s *WorkOrderService) SignIntake(ctx context.Context, id string, actor models.Actor) (*models.WorkOrder, error) {
	return s.Sign(ctx, id, dto.SignatureIntake, actor)
}

// SignDelivery records the delivery signature.
func (s *WorkOrderService) SignDelivery(ctx context.Context, id string, actor models.Actor) (*models.WorkOrder, error) {
	return s.Sign(ctx, id, dto.SignatureDelivery, actor)
}

// Sign records the intake or delivery signature the lifecycle gates require.
func (s *WorkOrderService) Sign(ctx context.Context, id string, kind dto.SignatureKind, actor models.Actor) (*models.WorkOrder, error) {
	var required models.WorkOrderState
	switch kind {
	case dto.SignatureIntake:
		required = models.StateIntake
	case dto.SignatureDelivery:
		required = models.StateReadyForDelivery
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "signature kind must be intake or delivery")
	}
	var signed *models.WorkOrder
	err := s.withOpenOrder(ctx, id, func(order *models.WorkOrder) error {
		if order.State != required {
			return appErrors.InvalidTransition(fmt.Sprintf("%s signature can only be recorded in %s", kind, required))
		}
		now := s.now()
		if err := s.repo.SetSignature(ctx, order.ID, kind, actor.ID, now); err != nil {
			return appErrors.Storage(err, "failed to record signature")
		}
		signed = order.Clone()
		signed.Version = order.Version + 1
		signed.UpdatedAt = now
		switch kind {
		case dto.SignatureIntake:
			signed.IntakeSignedAt, signed.IntakeSignedBy = &now, &actor.ID
		case dto.SignatureDelivery:
			signed.DeliverySignedAt, signed.DeliverySignedBy = &now, &actor.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditEventInput{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     models.AuditActionApprove,
		EntityType: models.EntityWorkOrder,
		EntityID:   id,
		Meta:       models.AuditMeta{"signature": kind},
	})
	return signed, nil
}

// SLA reports dwell time, overdue status and the blockers of the next transition.
func (s *WorkOrderService) SLA(ctx context.Context, id string) (*dto.SLAResponse, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.SLAResponse{
		WorkOrderID:  order.ID,
		State:        order.State,
		DwellSeconds: int64(s.machine.DwellTime(order) / time.Second),
		Deadline:     order.SLADeadline,
		Overdue:      s.machine.IsOverdue(order),
	}
	if entered, ok := order.StateEnteredAt[order.State]; ok {
		resp.EnteredAt = &entered
	}
	if next, missing, err := s.machine.Check(order); err == nil {
		resp.NextState = next
		resp.Blockers = missing
	}
	return resp, nil
}

// overdueSweepPageSize bounds each ListOverdue read of a sweep.
const overdueSweepPageSize = 200

// SweepOverdue alerts the technician and advisor of every open order past its
// SLA deadline, paging through all of them. It returns how many orders were overdue.
func (s *WorkOrderService) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now()
	var (
		after *repository.OverdueCursor
		total int
	)
	for {
		orders, err := s.repo.ListOverdue(ctx, now, after, overdueSweepPageSize)
		if err != nil {
			return total, appErrors.Storage(err, "failed to list overdue work orders")
		}
		for i := range orders {
			order := &orders[i]
			if !s.machine.IsOverdue(order) {
				continue
			}
			total++
			s.alertOverdue(ctx, order)
		}
		if len(orders) < overdueSweepPageSize {
			return total, nil
		}
		last := orders[len(orders)-1]
		if last.SLADeadline == nil {
			return total, nil
		}
		after = &repository.OverdueCursor{Deadline: *last.SLADeadline, ID: last.ID}
	}
}

func (s *WorkOrderService) alertOverdue(ctx context.Context, order *models.WorkOrder) {
	s.dispatch(ctx, recipientsFor(order, ""), dto.NotificationParams{
		Type:     models.NotificationTaskOverdue,
		Title:    fmt.Sprintf("Work order %s is overdue", displayCode(order)),
		Body:     fmt.Sprintf("SLA deadline %s passed while in %s", order.SLADeadline.Format(time.RFC3339), order.State),
		Priority: models.NotificationPriorityHigh,
		Channel:  channelForPriority(models.PriorityUrgent),
		GroupKey: "overdue:" + order.ID,
		TaskID:   &order.ID,
	})
}

// withOpenOrder runs fn under the order lock, rejecting delivered orders.
func (s *WorkOrderService) withOpenOrder(ctx context.Context, id string, fn func(order *models.WorkOrder) error) error {
	unlock, err := s.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "work order is busy, retry")
	}
	defer unlock()

	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.State == models.StateDelivered {
		return appErrors.Clone(appErrors.ErrConflict, "work order already delivered")
	}
	return fn(order)
}

func (s *WorkOrderService) notifyEvent(ctx context.Context, order *models.WorkOrder, event *models.DomainEvent) {
	params := dto.NotificationParams{
		Priority: notificationPriority(order.Priority),
		Channel:  channelForPriority(order.Priority),
		TaskID:   &order.ID,
		GroupKey: eventGroupKey(order.ID, string(event.Kind)+":"+string(event.To), event.Timestamp),
	}
	if order.CustomerID != "" {
		params.CustomerID = &order.CustomerID
	}
	if order.VehicleID != "" {
		params.VehicleID = &order.VehicleID
	}
	code := displayCode(order)
	switch event.Kind {
	case models.EventStatusChanged:
		params.Type = models.NotificationTaskStatusChanged
		params.Title = fmt.Sprintf("Work order %s moved to %s", code, event.To)
		params.Body = fmt.Sprintf("%s → %s", event.From, event.To)
	case models.EventPaused:
		params.Type = models.NotificationTaskPaused
		params.Title = fmt.Sprintf("Work order %s is waiting", code)
		params.Body = event.Reason
	case models.EventResumed:
		params.Type = models.NotificationTaskResumed
		params.Title = fmt.Sprintf("Work order %s resumed", code)
		params.Body = fmt.Sprintf("Back in %s", event.To)
	case models.EventAssigned:
		params.Type = models.NotificationTaskAssigned
		params.Title = fmt.Sprintf("Work order %s assigned", code)
		params.Body = fmt.Sprintf("Now in %s", order.State)
		if event.TechnicianID != nil {
			params.GroupKey = eventGroupKey(order.ID, "assigned:"+*event.TechnicianID, event.Timestamp)
		}
	default:
		return
	}
	s.dispatch(ctx, recipientsFor(order, event.ActorID), params)
}

func (s *WorkOrderService) dispatch(ctx context.Context, recipients []string, params dto.NotificationParams) {
	if s.notifier == nil || len(recipients) == 0 {
		return
	}
	if _, err := s.notifier.CreateBulk(ctx, recipients, params); err != nil {
		s.logger.Warn("work order notification partially failed",
			zap.String("type", string(params.Type)),
			zap.Error(err))
	}
}

func (s *WorkOrderService) recordTransition(kind models.DomainEventKind, from, to models.WorkOrderState, result string) {
	if s.metrics != nil {
		s.metrics.RecordTransition(kind, from, to, result)
	}
}

func auditInputForEvent(before, after *models.WorkOrder, event *models.DomainEvent, actor models.Actor) models.AuditEventInput {
	input := models.AuditEventInput{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		EntityType: models.EntityWorkOrder,
		EntityID:   event.WorkOrderID,
		Meta:       models.AuditMeta{"at": event.Timestamp.Format(time.RFC3339)},
	}
	switch event.Kind {
	case models.EventStatusChanged:
		input.Action = models.AuditActionStatusChange
		input.Extra = map[string]string{"from": string(event.From), "to": string(event.To)}
		input.Diff = models.AuditDiff{"state": {From: event.From, To: event.To}}
	case models.EventPaused:
		input.Action = models.AuditActionPause
		input.Extra = map[string]string{"reason": event.Reason}
		input.Diff = models.AuditDiff{
			"state":         {From: event.From, To: event.To},
			"waitingReason": {From: nil, To: event.Reason},
		}
		input.Meta["pausedAt"] = event.Timestamp.Format(time.RFC3339)
		input.Meta["resumeState"] = event.From
	case models.EventResumed:
		input.Action = models.AuditActionResume
		var reason interface{}
		if before.WaitingReason != nil {
			reason = *before.WaitingReason
		}
		input.Diff = models.AuditDiff{
			"state":         {From: event.From, To: event.To},
			"waitingReason": {From: reason, To: nil},
		}
		if before.PausedAt != nil {
			input.Meta["waitedSeconds"] = int64(event.Timestamp.Sub(*before.PausedAt) / time.Second)
		}
	case models.EventAssigned:
		input.Action = models.AuditActionAssign
		var previous interface{}
		if event.PreviousTechnicianID != nil {
			previous = *event.PreviousTechnicianID
		}
		assignee := ""
		if after.AssignedTechnicianID != nil {
			assignee = *after.AssignedTechnicianID
		}
		input.Extra = map[string]string{"assignee": assignee}
		input.Diff = models.AuditDiff{"assignedTechnicianId": {From: previous, To: assignee}}
	}
	return input
}

// recipientsFor returns the technician and advisor of the order, minus the actor.
func recipientsFor(order *models.WorkOrder, actorID string) []string {
	recipients := make([]string, 0, 2)
	for _, id := range []*string{order.AssignedTechnicianID, order.AdvisorID} {
		if id == nil || *id == "" || *id == actorID {
			continue
		}
		recipients = append(recipients, *id)
	}
	return recipients
}

func notificationPriority(p models.WorkOrderPriority) models.NotificationPriority {
	switch p {
	case models.PriorityUrgent, models.PriorityHigh:
		return models.NotificationPriorityHigh
	case models.PriorityLow:
		return models.NotificationPriorityLow
	default:
		return models.NotificationPriorityMedium
	}
}

// channelForPriority escalates urgent work to WhatsApp and high priority to email.
func channelForPriority(p models.WorkOrderPriority) models.NotificationChannel {
	switch p {
	case models.PriorityUrgent:
		return models.ChannelWhatsApp
	case models.PriorityHigh:
		return models.ChannelEmail
	default:
		return models.ChannelInApp
	}
}

func displayCode(order *models.WorkOrder) string {
	if order.Code != "" {
		return order.Code
	}
	return order.ID
}

// eventGroupKey identifies one domain event, so only a redelivery of the same
// event collapses. A later pause or a re-entry into a state is a new key.
func eventGroupKey(workOrderID, subject string, at time.Time) string {
	return fmt.Sprintf("workorder:%s:%s:%d", workOrderID, subject, at.UnixNano())
}

func lockKey(id string) string {
	return "workorder:" + id
}

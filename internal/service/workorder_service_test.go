package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	"github.com/noah-isme/workshop-ot-api/internal/repository"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

type workOrderRepoStub struct {
	mu        sync.Mutex
	orders    map[string]*models.WorkOrder
	updateErr error
	updates   int
	evidence  []*models.Evidence
	notes     []*models.Note
	items     []repository.SetChecklistItemParams
	overdue   []models.WorkOrder
	pages     []*repository.OverdueCursor
}

func newWorkOrderRepoStub(orders ...*models.WorkOrder) *workOrderRepoStub {
	stub := &workOrderRepoStub{orders: make(map[string]*models.WorkOrder)}
	for _, o := range orders {
		stub.orders[o.ID] = o
	}
	return stub
}

func (s *workOrderRepoStub) GetByID(_ context.Context, id string) (*models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return order.Clone(), nil
}

func (s *workOrderRepoStub) UpdateLifecycle(_ context.Context, order *models.WorkOrder, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	current := s.orders[order.ID]
	if current.Version != expectedVersion {
		return repository.ErrStaleVersion
	}
	stored := order.Clone()
	stored.Version = expectedVersion + 1
	s.orders[order.ID] = stored
	s.updates++
	return nil
}

func (s *workOrderRepoStub) ListOverdue(_ context.Context, _ time.Time, after *repository.OverdueCursor, limit int) ([]models.WorkOrder, error) {
	s.pages = append(s.pages, after)
	start := 0
	if after != nil {
		for i, o := range s.overdue {
			if o.ID == after.ID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(s.overdue) {
		end = len(s.overdue)
	}
	return s.overdue[start:end], nil
}

func (s *workOrderRepoStub) AddEvidence(_ context.Context, evidence *models.Evidence) error {
	evidence.ID = "ev-new"
	s.evidence = append(s.evidence, evidence)
	return nil
}

func (s *workOrderRepoStub) AddNote(_ context.Context, note *models.Note) error {
	note.ID = "note-new"
	s.notes = append(s.notes, note)
	return nil
}

func (s *workOrderRepoStub) SetChecklistItem(_ context.Context, params repository.SetChecklistItemParams) (*models.ChecklistItem, error) {
	if params.ItemID == "unknown" {
		return nil, sql.ErrNoRows
	}
	s.items = append(s.items, params)
	return &models.ChecklistItem{ID: params.ItemID, Phase: params.Phase, Done: params.Done, CompletedAt: params.CompletedAt}, nil
}

func (s *workOrderRepoStub) SetSignature(_ context.Context, workOrderID string, kind dto.SignatureKind, signerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.orders[workOrderID]
	switch kind {
	case dto.SignatureIntake:
		order.IntakeSignedBy, order.IntakeSignedAt = &signerID, &at
	case dto.SignatureDelivery:
		order.DeliverySignedBy, order.DeliverySignedAt = &signerID, &at
	}
	order.Version++
	return nil
}

type auditRecorderStub struct {
	inputs []models.AuditEventInput
}

func (a *auditRecorderStub) Record(_ context.Context, input models.AuditEventInput) *models.AuditEvent {
	a.inputs = append(a.inputs, input)
	return &models.AuditEvent{Action: input.Action, EntityID: input.EntityID}
}

type notifierStub struct {
	calls []notifierCall
	err   error
}

type notifierCall struct {
	userIDs []string
	params  dto.NotificationParams
}

func (n *notifierStub) CreateBulk(_ context.Context, userIDs []string, params dto.NotificationParams) ([]*models.Notification, error) {
	n.calls = append(n.calls, notifierCall{userIDs: userIDs, params: params})
	return nil, n.err
}

type transitionMetricsStub struct {
	results []string
}

func (m *transitionMetricsStub) RecordTransition(_ models.DomainEventKind, _, _ models.WorkOrderState, result string) {
	m.results = append(m.results, result)
}

type workOrderFixture struct {
	svc      *WorkOrderService
	repo     *workOrderRepoStub
	audit    *auditRecorderStub
	notifier *notifierStub
	metrics  *transitionMetricsStub
	clock    *testClock
}

func newWorkOrderFixture(orders ...*models.WorkOrder) *workOrderFixture {
	f := &workOrderFixture{
		repo:     newWorkOrderRepoStub(orders...),
		audit:    &auditRecorderStub{},
		notifier: &notifierStub{},
		metrics:  &transitionMetricsStub{},
		clock:    &testClock{t: machineEpoch.Add(time.Hour)},
	}
	f.svc = NewWorkOrderService(f.repo, f.audit, nil,
		WithWorkOrderNotifier(f.notifier),
		WithWorkOrderMetrics(f.metrics),
		WithWorkOrderClock(f.clock.Now))
	return f
}

var advisor = models.Actor{ID: "adv-1", Name: "Ana"}

func TestWorkOrderServiceAdvancePersistsAuditsAndNotifies(t *testing.T) {
	order := readyOrder()
	order.AssignedTechnicianID = strPtr("tech-1")
	f := newWorkOrderFixture(order)

	updated, event, err := f.svc.Advance(context.Background(), "wo-1", advisor)
	require.NoError(t, err)
	assert.Equal(t, models.StateDiagnosis, updated.State)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, models.StateIntake, event.From)
	assert.Equal(t, 1, f.repo.updates)
	assert.Equal(t, []string{TransitionApplied}, f.metrics.results)

	require.Len(t, f.audit.inputs, 1)
	audit := f.audit.inputs[0]
	assert.Equal(t, models.AuditActionStatusChange, audit.Action)
	assert.Equal(t, models.EntityWorkOrder, audit.EntityType)
	assert.Equal(t, "wo-1", audit.EntityID)
	assert.Equal(t, "Ana", audit.ActorName)
	assert.Equal(t, models.DiffValue{From: models.StateIntake, To: models.StateDiagnosis}, audit.Diff["state"])
	assert.Equal(t, "DIAGNOSIS", audit.Extra["to"])

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.Equal(t, []string{"tech-1"}, call.userIDs, "actor is not notified about their own change")
	assert.Equal(t, models.NotificationTaskStatusChanged, call.params.Type)
	assert.Equal(t, models.ChannelInApp, call.params.Channel)
	assert.Equal(t, fmt.Sprintf("workorder:wo-1:status_changed:DIAGNOSIS:%d", f.clock.Now().UnixNano()), call.params.GroupKey)
	require.NotNil(t, call.params.TaskID)
	assert.Equal(t, "wo-1", *call.params.TaskID)
}

func TestWorkOrderServiceGateFailureLeavesOrderUntouched(t *testing.T) {
	order := readyOrder()
	order.State = models.StateTeardown
	order.Checklists[models.StateTeardown] = checklist(models.StateTeardown, true, true, true, true, false)
	f := newWorkOrderFixture(order)

	_, _, err := f.svc.Advance(context.Background(), "wo-1", advisor)
	require.Error(t, err)
	details := gateDetails(t, err)
	assert.Equal(t, []string{"checklist item 5 incomplete"}, details.Missing)

	stored, _ := f.repo.GetByID(context.Background(), "wo-1")
	assert.Equal(t, models.StateTeardown, stored.State)
	assert.Equal(t, 1, stored.Version)
	assert.Zero(t, f.repo.updates)
	assert.Empty(t, f.audit.inputs)
	assert.Empty(t, f.notifier.calls)
	assert.Equal(t, []string{TransitionRejected}, f.metrics.results)
}

func TestWorkOrderServiceNotFoundAndStorage(t *testing.T) {
	f := newWorkOrderFixture(readyOrder())

	_, _, err := f.svc.Advance(context.Background(), "missing", advisor)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	f.repo.updateErr = errors.New("connection reset")
	_, _, err = f.svc.Advance(context.Background(), "wo-1", advisor)
	assert.ErrorIs(t, err, appErrors.ErrStorage)
	assert.Empty(t, f.audit.inputs)
	assert.Equal(t, []string{TransitionFailed}, f.metrics.results)

	f.repo.updateErr = repository.ErrStaleVersion
	_, _, err = f.svc.Advance(context.Background(), "wo-1", advisor)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, _, err = f.svc.Advance(context.Background(), "wo-1", models.Actor{})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestWorkOrderServicePauseResume(t *testing.T) {
	order := readyOrder()
	order.State = models.StateTeardown
	order.AssignedTechnicianID = strPtr("tech-1")
	order.Priority = models.PriorityUrgent
	f := newWorkOrderFixture(order)

	paused, event, err := f.svc.Pause(context.Background(), "wo-1", dto.PauseWorkOrderRequest{Reason: "waiting for parts"}, advisor)
	require.NoError(t, err)
	assert.Equal(t, models.StateWaiting, paused.State)
	assert.Equal(t, models.EventPaused, event.Kind)
	require.Len(t, f.audit.inputs, 1)
	assert.Equal(t, models.AuditActionPause, f.audit.inputs[0].Action)
	assert.Equal(t, "waiting for parts", f.audit.inputs[0].Extra["reason"])
	assert.Equal(t, models.StateTeardown, f.audit.inputs[0].Meta["resumeState"])
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, models.NotificationTaskPaused, f.notifier.calls[0].params.Type)
	assert.Equal(t, models.ChannelWhatsApp, f.notifier.calls[0].params.Channel)
	assert.Equal(t, models.NotificationPriorityHigh, f.notifier.calls[0].params.Priority)

	f.clock.Advance(3 * time.Hour)
	resumed, event, err := f.svc.Resume(context.Background(), "wo-1", advisor)
	require.NoError(t, err)
	assert.Equal(t, models.StateTeardown, resumed.State)
	assert.Equal(t, models.EventResumed, event.Kind)
	assert.Equal(t, 3, resumed.Version)
	require.Len(t, f.audit.inputs, 2)
	resume := f.audit.inputs[1]
	assert.Equal(t, models.AuditActionResume, resume.Action)
	assert.Equal(t, "waiting for parts", resume.Diff["waitingReason"].From)
	assert.EqualValues(t, 3*60*60, resume.Meta["waitedSeconds"])
}

func TestWorkOrderServicePauseAndAssignValidatePayload(t *testing.T) {
	order := readyOrder()
	order.State = models.StateTeardown
	f := newWorkOrderFixture(order)
	ctx := context.Background()
	longReason := strings.Repeat("x", 501)

	_, _, err := f.svc.Pause(ctx, "wo-1", dto.PauseWorkOrderRequest{Reason: longReason}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, f.repo.updates)

	_, _, err = f.svc.AssignTechnician(ctx, "wo-1", dto.AssignTechnicianRequest{}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, f.repo.updates)

	f.repo.orders["wo-1"].State = models.StateDelivered
	_, _, err = f.svc.Pause(ctx, "wo-1", dto.PauseWorkOrderRequest{Reason: longReason}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition, "state is checked before the payload")
	assert.Empty(t, f.audit.inputs)
}

func TestWorkOrderServiceAssignNotifiesNewTechnician(t *testing.T) {
	order := readyOrder()
	order.State = models.StateQualityCheck
	order.AssignedTechnicianID = strPtr("tech-1")
	f := newWorkOrderFixture(order)

	updated, _, err := f.svc.AssignTechnician(context.Background(), "wo-1", dto.AssignTechnicianRequest{TechnicianID: "tech-2"}, advisor)
	require.NoError(t, err)
	assert.Equal(t, models.StateQualityCheck, updated.State)

	require.Len(t, f.audit.inputs, 1)
	assert.Equal(t, models.AuditActionAssign, f.audit.inputs[0].Action)
	assert.Equal(t, "tech-2", f.audit.inputs[0].Extra["assignee"])
	assert.Equal(t, models.DiffValue{From: "tech-1", To: "tech-2"}, f.audit.inputs[0].Diff["assignedTechnicianId"])

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, []string{"tech-2"}, f.notifier.calls[0].userIDs)
	assert.Equal(t, fmt.Sprintf("workorder:wo-1:assigned:tech-2:%d", f.clock.Now().UnixNano()), f.notifier.calls[0].params.GroupKey)
}

func TestWorkOrderServiceNotificationFailureDoesNotFailTransition(t *testing.T) {
	order := readyOrder()
	order.AssignedTechnicianID = strPtr("tech-1")
	f := newWorkOrderFixture(order)
	f.notifier.err = errors.New("user tech-1: storage down")

	_, _, err := f.svc.Advance(context.Background(), "wo-1", advisor)
	require.NoError(t, err)
	assert.Len(t, f.notifier.calls, 1)
}

func TestWorkOrderServiceGateInputs(t *testing.T) {
	order := readyOrder()
	order.IntakeSignedAt = nil
	order.IntakeSignedBy = nil
	f := newWorkOrderFixture(order)
	ctx := context.Background()

	evidence, err := f.svc.AddEvidence(ctx, "wo-1", dto.AddEvidenceRequest{Subtype: models.EvidenceDamageDetail, URL: "https://cdn.example.com/dent.jpg"}, advisor)
	require.NoError(t, err)
	assert.Equal(t, models.EvidencePhoto, evidence.Kind)
	assert.Equal(t, "adv-1", evidence.AuthorID)

	_, err = f.svc.AddEvidence(ctx, "wo-1", dto.AddEvidenceRequest{Subtype: "roof", URL: "https://cdn.example.com/roof.jpg"}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	phase := models.StateIntake
	note, err := f.svc.AddNote(ctx, "wo-1", dto.AddNoteRequest{Text: " scratch on bumper ", Phase: &phase}, advisor)
	require.NoError(t, err)
	assert.Equal(t, "scratch on bumper", note.Text)

	done := true
	item, err := f.svc.SetChecklistItem(ctx, "wo-1", models.StateIntake, "in-2", dto.SetChecklistItemRequest{Done: &done}, advisor)
	require.NoError(t, err)
	assert.True(t, item.Done)
	require.Len(t, f.repo.items, 1)
	require.NotNil(t, f.repo.items[0].AuthorID)
	assert.Equal(t, "adv-1", *f.repo.items[0].AuthorID)

	_, err = f.svc.SetChecklistItem(ctx, "wo-1", models.StateIntake, "unknown", dto.SetChecklistItemRequest{Done: &done}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = f.svc.SetChecklistItem(ctx, "wo-1", models.StateDiagnosis, "in-2", dto.SetChecklistItemRequest{Done: &done}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	signed, err := f.svc.SignIntake(ctx, "wo-1", advisor)
	require.NoError(t, err)
	require.NotNil(t, signed.IntakeSignedAt)
	_, err = f.svc.SignDelivery(ctx, "wo-1", advisor)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	actions := make([]models.AuditAction, 0, len(f.audit.inputs))
	for _, in := range f.audit.inputs {
		actions = append(actions, in.Action)
	}
	assert.Equal(t, []models.AuditAction{
		models.AuditActionUpload,
		models.AuditActionCreate,
		models.AuditActionUpdate,
		models.AuditActionApprove,
	}, actions)

	_, _, err = f.svc.Advance(ctx, "wo-1", advisor)
	require.NoError(t, err)
}

func TestWorkOrderServiceDeliveredOrderIsReadOnly(t *testing.T) {
	order := readyOrder()
	order.State = models.StateDelivered
	f := newWorkOrderFixture(order)

	_, err := f.svc.AddNote(context.Background(), "wo-1", dto.AddNoteRequest{Text: "late"}, advisor)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, f.repo.notes)
}

func TestWorkOrderServiceSLAAndSweep(t *testing.T) {
	order := readyOrder()
	order.AssignedTechnicianID = strPtr("tech-1")
	deadline := machineEpoch.Add(30 * time.Minute)
	order.SLADeadline = &deadline
	order.IntakeSignedAt = nil
	f := newWorkOrderFixture(order)

	sla, err := f.svc.SLA(context.Background(), "wo-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateIntake, sla.State)
	assert.EqualValues(t, 3600, sla.DwellSeconds)
	assert.True(t, sla.Overdue)
	assert.Equal(t, models.StateDiagnosis, sla.NextState)
	assert.Equal(t, []string{"intake signature missing"}, sla.Blockers)

	f.repo.overdue = []models.WorkOrder{*order}
	count, err := f.svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.ElementsMatch(t, []string{"tech-1", "adv-1"}, call.userIDs)
	assert.Equal(t, models.NotificationTaskOverdue, call.params.Type)
	assert.Equal(t, "overdue:wo-1", call.params.GroupKey)
}

func TestWorkOrderServiceSweepPagesThroughEveryOverdueOrder(t *testing.T) {
	f := newWorkOrderFixture()
	const total = 2*overdueSweepPageSize + 50
	for i := 0; i < total; i++ {
		order := readyOrder()
		order.ID = fmt.Sprintf("wo-%03d", i)
		order.AssignedTechnicianID = strPtr("tech-1")
		deadline := machineEpoch.Add(time.Duration(i) * time.Second)
		order.SLADeadline = &deadline
		f.repo.overdue = append(f.repo.overdue, *order)
	}

	count, err := f.svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, total, count)
	require.Len(t, f.notifier.calls, total)
	assert.Equal(t, fmt.Sprintf("overdue:wo-%03d", total-1), f.notifier.calls[total-1].params.GroupKey)

	require.Len(t, f.repo.pages, 3)
	assert.Nil(t, f.repo.pages[0])
	assert.Equal(t, fmt.Sprintf("wo-%03d", overdueSweepPageSize-1), f.repo.pages[1].ID)
	assert.Equal(t, machineEpoch.Add(time.Duration(2*overdueSweepPageSize-1)*time.Second), f.repo.pages[2].Deadline)
}

func TestWorkOrderServiceRepeatedPausesNotifyEachTime(t *testing.T) {
	order := readyOrder()
	order.State = models.StateTeardown
	order.AssignedTechnicianID = strPtr("tech-1")
	f := newWorkOrderFixture(order)
	inbox := newNotificationFixture(NotificationServiceConfig{})
	notifications := NewNotificationService(inbox.store, inbox.settings, NewNotificationPolicy(time.UTC), NotificationServiceConfig{}, nil,
		WithNotificationClock(f.clock.Now))
	f.svc = NewWorkOrderService(f.repo, f.audit, nil,
		WithWorkOrderNotifier(notifications),
		WithWorkOrderClock(f.clock.Now))
	ctx := context.Background()

	_, _, err := f.svc.Pause(ctx, "wo-1", dto.PauseWorkOrderRequest{Reason: "waiting for parts"}, advisor)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, _, err = f.svc.Resume(ctx, "wo-1", advisor)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, _, err = f.svc.Pause(ctx, "wo-1", dto.PauseWorkOrderRequest{Reason: "customer approval needed"}, advisor)
	require.NoError(t, err)

	var reasons []string
	for _, n := range inbox.store.rows {
		if n.UserID == "tech-1" && n.Type == models.NotificationTaskPaused {
			reasons = append(reasons, n.Body)
		}
	}
	assert.Equal(t, []string{"waiting for parts", "customer approval needed"}, reasons)
}

func TestWorkOrderServiceSerializesConcurrentAdvances(t *testing.T) {
	f := newWorkOrderFixture(readyOrder())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.svc.Advance(context.Background(), "wo-1", advisor)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	stored, _ := f.repo.GetByID(context.Background(), "wo-1")
	assert.Equal(t, models.StateQuotePending, stored.State)
	assert.Equal(t, 3, stored.Version)
}

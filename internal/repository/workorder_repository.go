package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
)

// ErrStaleVersion is returned when an update targets a version that is no longer current.
var ErrStaleVersion = errors.New("work order version is stale")

const workOrderColumns = `id, code, vehicle_id, customer_id, advisor_id, assigned_technician_id, priority, state,
       resume_state, waiting_reason, paused_at, sla_deadline, intake_signed_by, intake_signed_at,
       delivery_signed_by, delivery_signed_at, state_entered_at, version, created_at, updated_at`

// WorkOrderRepository persists work orders and the gate inputs attached to them.
type WorkOrderRepository struct {
	db *sqlx.DB
}

// NewWorkOrderRepository constructs the repository.
func NewWorkOrderRepository(db *sqlx.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// GetByID loads the order together with its checklists, evidence and notes.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	var order models.WorkOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, err
	}

	const itemsQuery = `SELECT id, work_order_id, phase, code, description, position, done, author_id, completed_at
	FROM work_order_checklist_items WHERE work_order_id = $1 ORDER BY phase, position`
	var items []models.ChecklistItem
	if err := r.db.SelectContext(ctx, &items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("load checklist items: %w", err)
	}
	order.Checklists = groupChecklists(items)

	const evidenceQuery = `SELECT id, work_order_id, subtype, kind, url, author_id, created_at
	FROM work_order_evidence WHERE work_order_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &order.Evidence, evidenceQuery, id); err != nil {
		return nil, fmt.Errorf("load evidence: %w", err)
	}

	const notesQuery = `SELECT id, work_order_id, text, author_id, phase, created_at
	FROM work_order_notes WHERE work_order_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &order.Notes, notesQuery, id); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if order.StateEnteredAt == nil {
		order.StateEnteredAt = make(models.StateTimestamps)
	}
	return &order, nil
}

func groupChecklists(items []models.ChecklistItem) map[models.WorkOrderState]*models.Checklist {
	lists := make(map[models.WorkOrderState]*models.Checklist)
	for _, item := range items {
		list, ok := lists[item.Phase]
		if !ok {
			list = &models.Checklist{Phase: item.Phase}
			lists[item.Phase] = list
		}
		list.Items = append(list.Items, item)
	}
	return lists
}

// UpdateLifecycle writes the lifecycle columns of order when the stored version
// still equals expectedVersion, bumping the version by one.
func (r *WorkOrderRepository) UpdateLifecycle(ctx context.Context, order *models.WorkOrder, expectedVersion int) error {
	const query = `UPDATE work_orders SET
		state = :state,
		resume_state = :resume_state,
		waiting_reason = :waiting_reason,
		paused_at = :paused_at,
		assigned_technician_id = :assigned_technician_id,
		state_entered_at = :state_entered_at,
		version = version + 1,
		updated_at = :updated_at
	WHERE id = :id AND version = :expected_version`
	updatedAt := order.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                     order.ID,
		"state":                  order.State,
		"resume_state":           order.ResumeState,
		"waiting_reason":         order.WaitingReason,
		"paused_at":              order.PausedAt,
		"assigned_technician_id": order.AssignedTechnicianID,
		"state_entered_at":       order.StateEnteredAt,
		"updated_at":             updatedAt,
		"expected_version":       expectedVersion,
	})
	if err != nil {
		return fmt.Errorf("update work order lifecycle: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update work order lifecycle rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// OverdueCursor is the (sla_deadline, id) of the last row of a ListOverdue page.
type OverdueCursor struct {
	Deadline time.Time
	ID       string
}

// ListOverdue returns up to limit open orders whose SLA deadline is before now,
// ordered by deadline then id. Pass the cursor of the previous page to continue.
func (r *WorkOrderRepository) ListOverdue(ctx context.Context, now time.Time, after *OverdueCursor, limit int) ([]models.WorkOrder, error) {
	if limit <= 0 {
		limit = 200
	}
	var b strings.Builder
	b.WriteString(`SELECT ` + workOrderColumns + ` FROM work_orders
	WHERE sla_deadline IS NOT NULL AND sla_deadline < $1 AND state <> $2`)
	args := []interface{}{now, models.StateDelivered}
	if after != nil {
		b.WriteString(` AND (sla_deadline, id) > ($3, $4)`)
		args = append(args, after.Deadline, after.ID)
	}
	args = append(args, limit)
	fmt.Fprintf(&b, ` ORDER BY sla_deadline ASC, id ASC LIMIT $%d`, len(args))

	var orders []models.WorkOrder
	if err := r.db.SelectContext(ctx, &orders, b.String(), args...); err != nil {
		return nil, fmt.Errorf("list overdue work orders: %w", err)
	}
	return orders, nil
}

// AddEvidence inserts a media reference.
func (r *WorkOrderRepository) AddEvidence(ctx context.Context, evidence *models.Evidence) error {
	if evidence.ID == "" {
		evidence.ID = uuid.NewString()
	}
	if evidence.CreatedAt.IsZero() {
		evidence.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO work_order_evidence (id, work_order_id, subtype, kind, url, author_id, created_at)
	VALUES (:id, :work_order_id, :subtype, :kind, :url, :author_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, evidence); err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

// AddNote inserts a technical note.
func (r *WorkOrderRepository) AddNote(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO work_order_notes (id, work_order_id, text, author_id, phase, created_at)
	VALUES (:id, :work_order_id, :text, :author_id, :phase, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// SetChecklistItemParams identifies an item and its new completion state.
type SetChecklistItemParams struct {
	WorkOrderID string
	Phase       models.WorkOrderState
	ItemID      string
	Done        bool
	AuthorID    *string
	CompletedAt *time.Time
}

// SetChecklistItem updates one item and returns it. sql.ErrNoRows means the
// item does not belong to the order's phase.
func (r *WorkOrderRepository) SetChecklistItem(ctx context.Context, params SetChecklistItemParams) (*models.ChecklistItem, error) {
	const query = `UPDATE work_order_checklist_items SET done = $1, author_id = $2, completed_at = $3
	WHERE id = $4 AND work_order_id = $5 AND phase = $6
	RETURNING id, work_order_id, phase, code, description, position, done, author_id, completed_at`
	var item models.ChecklistItem
	if err := r.db.GetContext(ctx, &item, query,
		params.Done, params.AuthorID, params.CompletedAt, params.ItemID, params.WorkOrderID, params.Phase); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetSignature stores the signer and time of the intake or delivery signature.
func (r *WorkOrderRepository) SetSignature(ctx context.Context, workOrderID string, kind dto.SignatureKind, signerID string, at time.Time) error {
	var query string
	switch kind {
	case dto.SignatureIntake:
		query = `UPDATE work_orders SET intake_signed_by = $1, intake_signed_at = $2, version = version + 1, updated_at = $2 WHERE id = $3`
	case dto.SignatureDelivery:
		query = `UPDATE work_orders SET delivery_signed_by = $1, delivery_signed_at = $2, version = version + 1, updated_at = $2 WHERE id = $3`
	default:
		return fmt.Errorf("unknown signature kind %q", kind)
	}
	result, err := r.db.ExecContext(ctx, query, signerID, at, workOrderID)
	if err != nil {
		return fmt.Errorf("set %s signature: %w", kind, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("set %s signature: work order %s not found", kind, workOrderID)
	}
	return nil
}

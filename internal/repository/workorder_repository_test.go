package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
)

func newWorkOrderRepoMock(t *testing.T) (*WorkOrderRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewWorkOrderRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

var workOrderRowColumns = []string{"id", "code", "vehicle_id", "customer_id", "advisor_id", "assigned_technician_id", "priority", "state",
	"resume_state", "waiting_reason", "paused_at", "sla_deadline", "intake_signed_by", "intake_signed_at",
	"delivery_signed_by", "delivery_signed_at", "state_entered_at", "version", "created_at", "updated_at"}

func TestWorkOrderRepositoryGetByIDGroupsChecklists(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	created := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_orders WHERE id = $1")).
		WithArgs("wo-1").
		WillReturnRows(sqlmock.NewRows(workOrderRowColumns).
			AddRow("wo-1", "OT-0001", "veh-1", "cus-1", "adv-1", "tech-1", "HIGH", "TEARDOWN",
				nil, nil, nil, nil, "cus-1", created, nil, nil,
				`{"INTAKE":"2026-03-02T08:00:00Z","TEARDOWN":"2026-03-03T08:00:00Z"}`, 4, created, created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_order_checklist_items")).
		WithArgs("wo-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_order_id", "phase", "code", "description", "position", "done", "author_id", "completed_at"}).
			AddRow("i-1", "wo-1", "INTAKE", "vin", "VIN", 1, true, "tech-1", created).
			AddRow("i-2", "wo-1", "TEARDOWN", "drain", "Drain oil", 1, true, "tech-1", created).
			AddRow("i-3", "wo-1", "TEARDOWN", "remove", "Remove head", 2, false, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_order_evidence")).
		WithArgs("wo-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_order_id", "subtype", "kind", "url", "author_id", "created_at"}).
			AddRow("e-1", "wo-1", "teardown_before", "photo", "https://cdn/x.jpg", "tech-1", created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_order_notes")).
		WithArgs("wo-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_order_id", "text", "author_id", "phase", "created_at"}).
			AddRow("n-1", "wo-1", "gasket worn", "tech-1", "TEARDOWN", created))

	order, err := repo.GetByID(context.Background(), "wo-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateTeardown, order.State)
	assert.Equal(t, 4, order.Version)
	require.Len(t, order.Checklists, 2)
	assert.Len(t, order.Checklists[models.StateTeardown].Items, 2)
	assert.Equal(t, []int{2}, order.Checklists[models.StateTeardown].Missing())
	require.Len(t, order.Evidence, 1)
	require.Len(t, order.Notes, 1)
	require.NotNil(t, order.Notes[0].Phase)
	assert.Equal(t, models.StateTeardown, *order.Notes[0].Phase)
	assert.Equal(t, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), order.StateEnteredAt[models.StateTeardown])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM work_orders WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderRepositoryUpdateLifecycleVersionCheck(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	order := &models.WorkOrder{
		ID:             "wo-1",
		State:          models.StateReassembly,
		StateEnteredAt: models.StateTimestamps{models.StateReassembly: time.Now().UTC()},
		UpdatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_orders SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateLifecycle(context.Background(), order, 3))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_orders SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateLifecycle(context.Background(), order, 3)
	assert.ErrorIs(t, err, ErrStaleVersion)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderRepositoryListOverdue(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("sla_deadline < $1 AND state <> $2 ORDER BY sla_deadline ASC, id ASC LIMIT $3")).
		WithArgs(now, models.StateDelivered, 50).
		WillReturnRows(sqlmock.NewRows(workOrderRowColumns).
			AddRow("wo-9", "OT-0009", "veh-9", "cus-9", nil, "tech-2", "MEDIUM", "DIAGNOSIS",
				nil, nil, nil, deadline, nil, nil, nil, nil, `{}`, 1, now, now))

	orders, err := repo.ListOverdue(context.Background(), now, nil, 50)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "wo-9", orders[0].ID)
	require.NotNil(t, orders[0].SLADeadline)

	mock.ExpectQuery(regexp.QuoteMeta("AND (sla_deadline, id) > ($3, $4) ORDER BY sla_deadline ASC, id ASC LIMIT $5")).
		WithArgs(now, models.StateDelivered, deadline, "wo-9", 50).
		WillReturnRows(sqlmock.NewRows(workOrderRowColumns))

	orders, err = repo.ListOverdue(context.Background(), now, &OverdueCursor{Deadline: deadline, ID: "wo-9"}, 50)
	require.NoError(t, err)
	assert.Empty(t, orders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderRepositoryAddEvidenceAndNote(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO work_order_evidence")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	evidence := &models.Evidence{WorkOrderID: "wo-1", Subtype: models.EvidenceFront, Kind: models.EvidencePhoto, URL: "https://cdn/f.jpg", AuthorID: "tech-1"}
	require.NoError(t, repo.AddEvidence(context.Background(), evidence))
	assert.NotEmpty(t, evidence.ID)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO work_order_notes")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	note := &models.Note{WorkOrderID: "wo-1", Text: "ok", AuthorID: "tech-1"}
	require.NoError(t, repo.AddNote(context.Background(), note))
	assert.NotEmpty(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderRepositorySetChecklistItem(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	now := time.Now().UTC()
	author := "tech-1"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE work_order_checklist_items SET done = $1")).
		WithArgs(true, &author, &now, "i-5", "wo-1", models.StateTeardown).
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_order_id", "phase", "code", "description", "position", "done", "author_id", "completed_at"}).
			AddRow("i-5", "wo-1", "TEARDOWN", "torque", "Torque check", 5, true, author, now))

	item, err := repo.SetChecklistItem(context.Background(), SetChecklistItemParams{
		WorkOrderID: "wo-1",
		Phase:       models.StateTeardown,
		ItemID:      "i-5",
		Done:        true,
		AuthorID:    &author,
		CompletedAt: &now,
	})
	require.NoError(t, err)
	assert.True(t, item.Done)
	assert.Equal(t, 5, item.Position)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderRepositorySetSignature(t *testing.T) {
	repo, mock, cleanup := newWorkOrderRepoMock(t)
	defer cleanup()

	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("SET delivery_signed_by = $1")).
		WithArgs("adv-1", at, "wo-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetSignature(context.Background(), "wo-1", dto.SignatureDelivery, "adv-1", at))

	err := repo.SetSignature(context.Background(), "wo-1", dto.SignatureKind("witness"), "adv-1", at)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

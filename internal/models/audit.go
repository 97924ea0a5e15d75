package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AuditAction tags the kind of mutation recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionDelete       AuditAction = "delete"
	AuditActionStatusChange AuditAction = "status_change"
	AuditActionAssign       AuditAction = "assign"
	AuditActionMerge        AuditAction = "merge"
	AuditActionPause        AuditAction = "pause"
	AuditActionResume       AuditAction = "resume"
	AuditActionApprove      AuditAction = "approve"
	AuditActionReject       AuditAction = "reject"
	AuditActionUpload       AuditAction = "upload"
	AuditActionReprogram    AuditAction = "reprogram"
	AuditActionSend         AuditAction = "send"
)

// Audited entity types.
const (
	EntityWorkOrder    = "work_order"
	EntityCustomer     = "customer"
	EntityVehicle      = "vehicle"
	EntityQuote        = "quote"
	EntityAppointment  = "appointment"
	EntityNotification = "notification"
	EntityMedia        = "media"
)

// DiffValue records a single field change.
type DiffValue struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// AuditDiff maps field names to changes.
type AuditDiff map[string]DiffValue

// Value implements driver.Valuer.
func (d AuditDiff) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *AuditDiff) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil || raw == nil {
		*d = nil
		return err
	}
	return json.Unmarshal(raw, d)
}

// AuditMeta carries free-form context.
type AuditMeta map[string]interface{}

// Value implements driver.Valuer.
func (m AuditMeta) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *AuditMeta) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil || raw == nil {
		*m = nil
		return err
	}
	return json.Unmarshal(raw, m)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported json column type")
	}
}

// AuditEvent is an immutable audit trail record.
type AuditEvent struct {
	ID         string      `db:"id" json:"id"`
	ActorID    string      `db:"actor_id" json:"actorId"`
	Action     AuditAction `db:"action" json:"action"`
	EntityType string      `db:"entity_type" json:"entityType"`
	EntityID   string      `db:"entity_id" json:"entityId"`
	Summary    string      `db:"summary" json:"summary"`
	Diff       AuditDiff   `db:"diff" json:"diff,omitempty"`
	Meta       AuditMeta   `db:"meta" json:"meta,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// AuditEventInput is what callers hand to the audit log.
type AuditEventInput struct {
	ActorID    string
	ActorName  string
	Action     AuditAction
	EntityType string
	EntityID   string
	Summary    string
	Extra      map[string]string
	Diff       AuditDiff
	Meta       AuditMeta
}

// AuditFilter constrains audit queries.
type AuditFilter struct {
	ActorID    string
	EntityType string
	EntityID   string
	Action     AuditAction
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

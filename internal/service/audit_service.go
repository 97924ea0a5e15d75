package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

type auditStore interface {
	Create(ctx context.Context, event *models.AuditEvent) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEvent, int, error)
}

type auditMetrics interface {
	RecordAuditWrite(ok bool)
}

// AuditService is the append-only audit trail. Writes are best-effort: the
// business mutation has already committed when Record runs, so a storage
// failure is logged and counted but never surfaced to the caller.
type AuditService struct {
	repo    auditStore
	metrics auditMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditService constructs the service.
func NewAuditService(repo auditStore, metrics auditMetrics, logger *zap.Logger, now func() time.Time) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AuditService{repo: repo, metrics: metrics, logger: logger, now: now}
}

// Record appends an audit event. It returns nil when the event could not be stored.
func (s *AuditService) Record(ctx context.Context, input models.AuditEventInput) *models.AuditEvent {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Action == "" || input.EntityType == "" || input.EntityID == "" {
		s.logger.Warn("audit event dropped: action, entity type and entity id are required",
			zap.String("action", string(input.Action)),
			zap.String("entity_type", input.EntityType),
			zap.String("entity_id", input.EntityID))
		return nil
	}
	summary := input.Summary
	if summary == "" {
		summary = SummaryFor(input.Action, input.EntityType, input.EntityID, input.ActorName, input.Extra)
	}
	event := &models.AuditEvent{
		ActorID:    input.ActorID,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Summary:    summary,
		Diff:       input.Diff,
		Meta:       input.Meta,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Warn("failed to persist audit event",
			zap.String("action", string(event.Action)),
			zap.String("entity_type", event.EntityType),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordAuditWrite(false)
		}
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordAuditWrite(true)
	}
	return event
}

// Query lists audit events newest first.
func (s *AuditService) Query(ctx context.Context, filter models.AuditFilter, page, pageSize int) ([]models.AuditEvent, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date range end must not be before start")
	}
	filter.Page = page
	filter.PageSize = pageSize
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to query audit events")
	}
	return events, models.NewPagination(page, pageSize, total), nil
}

var summaryTemplates = map[models.AuditAction]string{
	models.AuditActionCreate:       "{actor} created {entity}",
	models.AuditActionUpdate:       "{actor} updated {entity}",
	models.AuditActionDelete:       "{actor} deleted {entity}",
	models.AuditActionStatusChange: "{actor} changed {entity} status: {from} → {to}",
	models.AuditActionAssign:       "{actor} assigned {entity} to {assignee}",
	models.AuditActionMerge:        "{actor} merged {entity} into {target}",
	models.AuditActionPause:        "{actor} paused {entity}: {reason}",
	models.AuditActionResume:       "{actor} resumed {entity}",
	models.AuditActionApprove:      "{actor} approved {entity}",
	models.AuditActionReject:       "{actor} rejected {entity}",
	models.AuditActionUpload:       "{actor} uploaded {file} to {entity}",
	models.AuditActionReprogram:    "{actor} rescheduled {entity} to {date}",
	models.AuditActionSend:         "{actor} sent {entity} via {channel}",
}

const genericSummaryTemplate = "{actor} performed {action} on {entity}"

// SummaryFor renders the human-readable summary of an audit event. Every
// action has a template; unknown actions use a generic one. Placeholders
// without a value in extra render as "?".
func SummaryFor(action models.AuditAction, entityType, entityID, actorName string, extra map[string]string) string {
	tmpl, ok := summaryTemplates[action]
	if !ok {
		tmpl = genericSummaryTemplate
	}
	if strings.TrimSpace(actorName) == "" {
		actorName = "system"
	}
	values := map[string]string{
		"actor":  actorName,
		"entity": strings.TrimSpace(entityType + " " + entityID),
		"action": string(action),
	}
	for key, value := range extra {
		if _, reserved := values[key]; !reserved {
			values[key] = value
		}
	}

	var b strings.Builder
	rest := tmpl
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			break
		}
		b.WriteString(rest[:start])
		if value, ok := values[rest[start+1:start+end]]; ok && value != "" {
			b.WriteString(value)
		} else {
			b.WriteString("?")
		}
		rest = rest[start+end+1:]
	}
	b.WriteString(rest)
	return b.String()
}

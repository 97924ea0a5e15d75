package dto

import "time"

// AuditQuery mirrors supported audit listing filters.
type AuditQuery struct {
	ActorID    string     `form:"actorId"`
	EntityType string     `form:"entityType"`
	EntityID   string     `form:"entityId"`
	Action     string     `form:"action"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int        `form:"page"`
	PageSize   int        `form:"pageSize"`
}

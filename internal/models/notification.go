package models

import "time"

// NotificationType enumerates lifecycle events users can be told about.
type NotificationType string

const (
	NotificationTaskAssigned        NotificationType = "task_assigned"
	NotificationTaskStatusChanged   NotificationType = "task_status_changed"
	NotificationTaskPaused          NotificationType = "task_paused"
	NotificationTaskResumed         NotificationType = "task_resumed"
	NotificationTaskReminder        NotificationType = "task_reminder"
	NotificationTaskOverdue         NotificationType = "task_overdue"
	NotificationAppointmentCreated  NotificationType = "appointment_created"
	NotificationAppointmentReminder NotificationType = "appointment_reminder"
	NotificationAppointmentChanged  NotificationType = "appointment_changed"
	NotificationQuoteCreated        NotificationType = "quote_created"
	NotificationQuoteApproved       NotificationType = "quote_approved"
	NotificationQuoteRejected       NotificationType = "quote_rejected"
	NotificationSystemAlert         NotificationType = "system_alert"
	NotificationSystemMaintenance   NotificationType = "system_maintenance"
)

// NotificationPriority ranks how prominently a notification is shown.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

// NotificationChannel names a delivery medium.
type NotificationChannel string

const (
	ChannelInApp    NotificationChannel = "IN_APP"
	ChannelEmail    NotificationChannel = "EMAIL"
	ChannelWhatsApp NotificationChannel = "WHATSAPP"
)

// Notification is a persisted inbox row.
type Notification struct {
	ID            string               `db:"id" json:"id"`
	UserID        string               `db:"user_id" json:"userId"`
	Type          NotificationType     `db:"type" json:"type"`
	Title         string               `db:"title" json:"title"`
	Body          string               `db:"body" json:"body"`
	Priority      NotificationPriority `db:"priority" json:"priority"`
	Channel       NotificationChannel  `db:"channel" json:"channel"`
	ReadAt        *time.Time           `db:"read_at" json:"readAt,omitempty"`
	GroupKey      *string              `db:"group_key" json:"groupKey,omitempty"`
	TaskID        *string              `db:"task_id" json:"taskId,omitempty"`
	QuoteID       *string              `db:"quote_id" json:"quoteId,omitempty"`
	AppointmentID *string              `db:"appointment_id" json:"appointmentId,omitempty"`
	CustomerID    *string              `db:"customer_id" json:"customerId,omitempty"`
	VehicleID     *string              `db:"vehicle_id" json:"vehicleId,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"createdAt"`
}

// NotificationFilter constrains inbox listing.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}

// NotificationIntensity is the user's preferred alert volume.
type NotificationIntensity string

const (
	IntensityLow    NotificationIntensity = "low"
	IntensityNormal NotificationIntensity = "normal"
	IntensityHigh   NotificationIntensity = "high"
)

// NotificationSettings holds per-user delivery preferences.
type NotificationSettings struct {
	UserID               string                `db:"user_id" json:"userId"`
	InAppEnabled         bool                  `db:"in_app_enabled" json:"inAppEnabled"`
	EmailEnabled         bool                  `db:"email_enabled" json:"emailEnabled"`
	WhatsAppEnabled      bool                  `db:"whatsapp_enabled" json:"whatsappEnabled"`
	TaskReminders        bool                  `db:"task_reminders" json:"taskReminders"`
	AppointmentReminders bool                  `db:"appointment_reminders" json:"appointmentReminders"`
	QuoteUpdates         bool                  `db:"quote_updates" json:"quoteUpdates"`
	SystemAlerts         bool                  `db:"system_alerts" json:"systemAlerts"`
	Intensity            NotificationIntensity `db:"intensity" json:"intensity"`
	QuietHoursStart      *string               `db:"quiet_hours_start" json:"quietHoursStart,omitempty"`
	QuietHoursEnd        *string               `db:"quiet_hours_end" json:"quietHoursEnd,omitempty"`
	WorkdaysOnly         bool                  `db:"workdays_only" json:"workdaysOnly"`
	UpdatedAt            time.Time             `db:"updated_at" json:"updatedAt"`
}

// DefaultNotificationSettings is used when a user never saved preferences.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:               userID,
		InAppEnabled:         true,
		EmailEnabled:         true,
		WhatsAppEnabled:      true,
		TaskReminders:        true,
		AppointmentReminders: true,
		QuoteUpdates:         true,
		SystemAlerts:         true,
		Intensity:            IntensityNormal,
	}
}

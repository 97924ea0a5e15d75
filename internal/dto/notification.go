package dto

import "github.com/noah-isme/workshop-ot-api/internal/models"

// NotificationParams describes a notification to dispatch. UserID is filled
// per recipient by bulk dispatch.
type NotificationParams struct {
	UserID        string                      `json:"userId" validate:"required"`
	Type          models.NotificationType     `json:"type" validate:"required"`
	Title         string                      `json:"title" validate:"required,max=200"`
	Body          string                      `json:"body" validate:"max=2000"`
	Priority      models.NotificationPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Channel       models.NotificationChannel  `json:"channel" validate:"omitempty,oneof=IN_APP EMAIL WHATSAPP"`
	GroupKey      string                      `json:"groupKey" validate:"max=200"`
	TaskID        *string                     `json:"taskId,omitempty"`
	QuoteID       *string                     `json:"quoteId,omitempty"`
	AppointmentID *string                     `json:"appointmentId,omitempty"`
	CustomerID    *string                     `json:"customerId,omitempty"`
	VehicleID     *string                     `json:"vehicleId,omitempty"`
}

// MarkReadRequest marks either the listed ids or every unread notification.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// NotificationQuery mirrors inbox listing filters.
type NotificationQuery struct {
	UnreadOnly bool
	Page       int
	PageSize   int
}

// UnreadCountResponse is returned by the polling endpoint.
type UnreadCountResponse struct {
	Unread              int `json:"unread"`
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

// MarkReadResponse reports how many rows changed.
type MarkReadResponse struct {
	Updated int `json:"updated"`
}

// UpdateNotificationSettingsRequest is a partial update; nil fields keep their value.
type UpdateNotificationSettingsRequest struct {
	InAppEnabled         *bool                         `json:"inAppEnabled"`
	EmailEnabled         *bool                         `json:"emailEnabled"`
	WhatsAppEnabled      *bool                         `json:"whatsappEnabled"`
	TaskReminders        *bool                         `json:"taskReminders"`
	AppointmentReminders *bool                         `json:"appointmentReminders"`
	QuoteUpdates         *bool                         `json:"quoteUpdates"`
	SystemAlerts         *bool                         `json:"systemAlerts"`
	Intensity            *models.NotificationIntensity `json:"intensity" validate:"omitempty,oneof=low normal high"`
	QuietHoursStart      *string                       `json:"quietHoursStart" validate:"omitempty,datetime=15:04"`
	QuietHoursEnd        *string                       `json:"quietHoursEnd" validate:"omitempty,datetime=15:04"`
	ClearQuietHours      bool                          `json:"clearQuietHours"`
	WorkdaysOnly         *bool                         `json:"workdaysOnly"`
}

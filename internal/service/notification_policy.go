package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/workshop-ot-api/internal/models"
)

// NotificationCategory groups notification types under one user toggle.
type NotificationCategory string

const (
	CategoryTaskReminders        NotificationCategory = "taskReminders"
	CategoryAppointmentReminders NotificationCategory = "appointmentReminders"
	CategoryQuoteUpdates         NotificationCategory = "quoteUpdates"
	CategorySystemAlerts         NotificationCategory = "systemAlerts"
)

var notificationCategories = map[models.NotificationType]NotificationCategory{
	models.NotificationTaskAssigned:        CategoryTaskReminders,
	models.NotificationTaskStatusChanged:   CategoryTaskReminders,
	models.NotificationTaskPaused:          CategoryTaskReminders,
	models.NotificationTaskResumed:         CategoryTaskReminders,
	models.NotificationTaskReminder:        CategoryTaskReminders,
	models.NotificationTaskOverdue:         CategoryTaskReminders,
	models.NotificationAppointmentCreated:  CategoryAppointmentReminders,
	models.NotificationAppointmentReminder: CategoryAppointmentReminders,
	models.NotificationAppointmentChanged:  CategoryAppointmentReminders,
	models.NotificationQuoteCreated:        CategoryQuoteUpdates,
	models.NotificationQuoteApproved:       CategoryQuoteUpdates,
	models.NotificationQuoteRejected:       CategoryQuoteUpdates,
	models.NotificationSystemAlert:         CategorySystemAlerts,
	models.NotificationSystemMaintenance:   CategorySystemAlerts,
}

// CategoryOf returns the category a type belongs to.
func CategoryOf(t models.NotificationType) (NotificationCategory, bool) {
	c, ok := notificationCategories[t]
	return c, ok
}

// NotificationPolicy decides whether a notification goes out and whether a
// user is inside their quiet hours. It holds no state besides the shop timezone.
type NotificationPolicy struct {
	loc *time.Location
}

// NewNotificationPolicy builds a policy evaluating quiet hours in loc (UTC when nil).
func NewNotificationPolicy(loc *time.Location) *NotificationPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationPolicy{loc: loc}
}

// ShouldSend reports the user's toggle for the type's category.
// Types without a category are sent.
func (p *NotificationPolicy) ShouldSend(t models.NotificationType, settings *models.NotificationSettings) bool {
	if settings == nil {
		return true
	}
	category, ok := CategoryOf(t)
	if !ok {
		return true
	}
	switch category {
	case CategoryTaskReminders:
		return settings.TaskReminders
	case CategoryAppointmentReminders:
		return settings.AppointmentReminders
	case CategoryQuoteUpdates:
		return settings.QuoteUpdates
	case CategorySystemAlerts:
		return settings.SystemAlerts
	}
	return true
}

// IsQuietNow reports whether now falls inside the user's quiet hours.
//
// Both bounds are inclusive. start < end is a same-day window; start >= end
// wraps past midnight. With workdaysOnly set, quiet hours never apply on
// Saturday or Sunday.
func (p *NotificationPolicy) IsQuietNow(settings *models.NotificationSettings, now time.Time) bool {
	if settings == nil || settings.QuietHoursStart == nil || settings.QuietHoursEnd == nil {
		return false
	}
	start, ok := minuteOfDay(*settings.QuietHoursStart)
	if !ok {
		return false
	}
	end, ok := minuteOfDay(*settings.QuietHoursEnd)
	if !ok {
		return false
	}

	local := now.In(p.loc)
	if settings.WorkdaysOnly {
		if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}

	current := local.Hour()*60 + local.Minute()
	if start < end {
		return start <= current && current <= end
	}
	return current >= start || current <= end
}

// minuteOfDay parses "HH:MM".
func minuteOfDay(raw string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/workshop-ot-api/internal/models"
)

// NotificationSettingsRepository stores per-user notification preferences.
type NotificationSettingsRepository struct {
	db *sqlx.DB
}

// NewNotificationSettingsRepository constructs the repository.
func NewNotificationSettingsRepository(db *sqlx.DB) *NotificationSettingsRepository {
	return &NotificationSettingsRepository{db: db}
}

// GetByUserID returns the stored settings or sql.ErrNoRows.
func (r *NotificationSettingsRepository) GetByUserID(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	const query = `SELECT user_id, in_app_enabled, email_enabled, whatsapp_enabled, task_reminders, appointment_reminders,
       quote_updates, system_alerts, intensity, quiet_hours_start, quiet_hours_end, workdays_only, updated_at
	FROM notification_settings WHERE user_id = $1`
	var settings models.NotificationSettings
	if err := r.db.GetContext(ctx, &settings, query, userID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert creates or replaces the user's settings.
func (r *NotificationSettingsRepository) Upsert(ctx context.Context, settings *models.NotificationSettings) error {
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notification_settings
	(user_id, in_app_enabled, email_enabled, whatsapp_enabled, task_reminders, appointment_reminders, quote_updates,
	 system_alerts, intensity, quiet_hours_start, quiet_hours_end, workdays_only, updated_at)
	VALUES (:user_id, :in_app_enabled, :email_enabled, :whatsapp_enabled, :task_reminders, :appointment_reminders, :quote_updates,
	 :system_alerts, :intensity, :quiet_hours_start, :quiet_hours_end, :workdays_only, :updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		in_app_enabled = EXCLUDED.in_app_enabled,
		email_enabled = EXCLUDED.email_enabled,
		whatsapp_enabled = EXCLUDED.whatsapp_enabled,
		task_reminders = EXCLUDED.task_reminders,
		appointment_reminders = EXCLUDED.appointment_reminders,
		quote_updates = EXCLUDED.quote_updates,
		system_alerts = EXCLUDED.system_alerts,
		intensity = EXCLUDED.intensity,
		quiet_hours_start = EXCLUDED.quiet_hours_start,
		quiet_hours_end = EXCLUDED.quiet_hours_end,
		workdays_only = EXCLUDED.workdays_only,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert notification settings: %w", err)
	}
	return nil
}

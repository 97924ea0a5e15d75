package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/workshop-ot-api/internal/models"
)

const notificationColumns = `id, user_id, type, title, body, priority, channel, read_at, group_key,
       task_id, quote_id, appointment_id, customer_id, vehicle_id, created_at`

// NotificationRepository persists in-app notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications
	(id, user_id, type, title, body, priority, channel, read_at, group_key, task_id, quote_id, appointment_id, customer_id, vehicle_id, created_at)
	VALUES (:id, :user_id, :type, :title, :body, :priority, :channel, :read_at, :group_key, :task_id, :quote_id, :appointment_id, :customer_id, :vehicle_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// FindRecentByGroupKey returns the newest notification for the user with the
// group key created at or after since. sql.ErrNoRows when there is none.
func (r *NotificationRepository) FindRecentByGroupKey(ctx context.Context, userID, groupKey string, since time.Time) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
	WHERE user_id = $1 AND group_key = $2 AND created_at >= $3
	ORDER BY created_at DESC LIMIT 1`
	var n models.Notification
	if err := r.db.GetContext(ctx, &n, query, userID, groupKey, since); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead marks the listed unread notifications of the user as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int, error) {
	const query = `UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND id = ANY($3) AND read_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, readAt, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark notifications read rows: %w", err)
	}
	return int(affected), nil
}

// MarkAllRead marks every unread notification of the user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, readAt time.Time) (int, error) {
	const query = `UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND read_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, readAt, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read rows: %w", err)
	}
	return int(affected), nil
}

// CountUnread returns the user's unread count.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// List returns one page of the user's notifications newest first and the total count.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	where := " WHERE user_id = $1"
	if filter.UnreadOnly {
		where += " AND read_at IS NULL"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM notifications"+where, filter.UserID); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM notifications%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		notificationColumns, where, size, (page-1)*size)
	var items []models.Notification
	if err := r.db.SelectContext(ctx, &items, query, filter.UserID); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return items, total, nil
}

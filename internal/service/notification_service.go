package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/workshop-ot-api/internal/dto"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

// DefaultDedupWindow is how long a groupKey collapses repeated notifications.
const DefaultDedupWindow = 5 * time.Minute

// unreadGenerationTTL must outlive any cached unread count.
const unreadGenerationTTL = 24 * time.Hour

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	FindRecentByGroupKey(ctx context.Context, userID, groupKey string, since time.Time) (*models.Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int, error)
	MarkAllRead(ctx context.Context, userID string, readAt time.Time) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
}

type notificationSettingsStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.NotificationSettings, error)
	Upsert(ctx context.Context, settings *models.NotificationSettings) error
}

// ChannelDispatcher hands a persisted notification to a secondary channel.
type ChannelDispatcher interface {
	Dispatch(ctx context.Context, channel models.NotificationChannel, n *models.Notification) error
}

type notificationMetrics interface {
	RecordNotification(t models.NotificationType, outcome string)
}

// Notification outcomes reported to metrics.
const (
	NotificationCreated    = "created"
	NotificationSuppressed = "suppressed"
	NotificationCollapsed  = "collapsed"
	NotificationFailed     = "failed"
)

// NotificationServiceConfig tunes the dispatcher.
type NotificationServiceConfig struct {
	DedupWindow     time.Duration
	UnreadCacheTTL  time.Duration
	EmailEnabled    bool
	WhatsAppEnabled bool
}

// NotificationService creates, de-duplicates and fans out notifications.
type NotificationService struct {
	repo      notificationStore
	settings  notificationSettingsStore
	policy    *NotificationPolicy
	channels  ChannelDispatcher
	cache     *CacheService
	audit     auditRecorder
	metrics   notificationMetrics
	validator *validator.Validate
	logger    *zap.Logger
	config    NotificationServiceConfig
	now       func() time.Time
}

// NotificationServiceOption configures the service.
type NotificationServiceOption func(*NotificationService)

// WithNotificationChannels sets the secondary channel dispatcher.
func WithNotificationChannels(channels ChannelDispatcher) NotificationServiceOption {
	return func(s *NotificationService) {
		s.channels = channels
	}
}

// WithNotificationCache enables unread-count caching.
func WithNotificationCache(cache *CacheService) NotificationServiceOption {
	return func(s *NotificationService) {
		s.cache = cache
	}
}

// WithNotificationAudit records every newly persisted notification in the audit log.
func WithNotificationAudit(audit auditRecorder) NotificationServiceOption {
	return func(s *NotificationService) {
		s.audit = audit
	}
}

// WithNotificationMetrics sets the metrics sink.
func WithNotificationMetrics(metrics notificationMetrics) NotificationServiceOption {
	return func(s *NotificationService) {
		s.metrics = metrics
	}
}

// WithNotificationClock overrides the clock.
func WithNotificationClock(now func() time.Time) NotificationServiceOption {
	return func(s *NotificationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewNotificationService constructs the dispatcher.
func NewNotificationService(repo notificationStore, settings notificationSettingsStore, policy *NotificationPolicy, cfg NotificationServiceConfig, logger *zap.Logger, opts ...NotificationServiceOption) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = NewNotificationPolicy(time.UTC)
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = DefaultDedupWindow
	}
	if cfg.UnreadCacheTTL <= 0 {
		cfg.UnreadCacheTTL = 30 * time.Second
	}
	svc := &NotificationService{
		repo:      repo,
		settings:  settings,
		policy:    policy,
		validator: validator.New(),
		logger:    logger,
		config:    cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Create persists a notification for params.UserID.
//
// It returns (nil, nil) when the user's settings suppress the type. When a
// groupKey is set and the same user received a notification with that key
// inside the dedup window, the existing notification is returned instead.
// The in-app row is always the persisted record; EMAIL and WHATSAPP delivery
// is attempted afterwards and its failure never rolls the row back.
func (s *NotificationService) Create(ctx context.Context, params dto.NotificationParams) (*models.Notification, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}

	settings, err := s.loadSettings(ctx, params.UserID)
	if err != nil {
		s.record(params.Type, NotificationFailed)
		return nil, err
	}
	if !s.policy.ShouldSend(params.Type, settings) {
		s.record(params.Type, NotificationSuppressed)
		return nil, nil
	}

	now := s.now()
	groupKey := strings.TrimSpace(params.GroupKey)
	if groupKey != "" {
		existing, err := s.repo.FindRecentByGroupKey(ctx, params.UserID, groupKey, now.Add(-s.config.DedupWindow))
		switch {
		case err == nil && existing != nil:
			s.record(params.Type, NotificationCollapsed)
			return existing, nil
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			s.record(params.Type, NotificationFailed)
			return nil, appErrors.Storage(err, "failed to look up recent notifications")
		}
	}

	priority := params.Priority
	if priority == "" {
		priority = models.NotificationPriorityMedium
	}
	n := &models.Notification{
		UserID:        params.UserID,
		Type:          params.Type,
		Title:         params.Title,
		Body:          params.Body,
		Priority:      priority,
		Channel:       models.ChannelInApp,
		TaskID:        params.TaskID,
		QuoteID:       params.QuoteID,
		AppointmentID: params.AppointmentID,
		CustomerID:    params.CustomerID,
		VehicleID:     params.VehicleID,
		CreatedAt:     now,
	}
	if groupKey != "" {
		n.GroupKey = &groupKey
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.record(params.Type, NotificationFailed)
		return nil, appErrors.Storage(err, "failed to create notification")
	}
	s.record(params.Type, NotificationCreated)
	if s.audit != nil {
		s.audit.Record(ctx, models.AuditEventInput{
			Action:     models.AuditActionCreate,
			EntityType: models.EntityNotification,
			EntityID:   n.ID,
			Meta:       models.AuditMeta{"userId": n.UserID, "type": n.Type, "groupKey": groupKey},
		})
	}
	s.invalidateUnread(ctx, n.UserID)
	s.deliverSecondary(ctx, params.Channel, settings, n)
	return n, nil
}

// CreateBulk applies Create for every user id. A failure for one user does not
// stop the others; failures are joined into the returned error alongside the
// notifications that were created.
func (s *NotificationService) CreateBulk(ctx context.Context, userIDs []string, params dto.NotificationParams) ([]*models.Notification, error) {
	created := make([]*models.Notification, 0, len(userIDs))
	var errs []error
	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		userID = strings.TrimSpace(userID)
		if userID == "" {
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		p := params
		p.UserID = userID
		n, err := s.Create(ctx, p)
		if err != nil {
			s.logger.Warn("notification dispatch failed",
				zap.String("user_id", userID),
				zap.String("type", string(params.Type)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		if n != nil {
			created = append(created, n)
		}
	}
	return created, errors.Join(errs...)
}

// MarkRead marks the user's notifications read: every unread one when all is
// set, otherwise exactly ids (restricted to the user's own rows).
func (s *NotificationService) MarkRead(ctx context.Context, userID string, req dto.MarkReadRequest) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, appErrors.ErrUnauthorized
	}
	now := s.now()
	var (
		affected int
		err      error
	)
	switch {
	case req.All:
		affected, err = s.repo.MarkAllRead(ctx, userID, now)
	case len(req.IDs) > 0:
		affected, err = s.repo.MarkRead(ctx, userID, req.IDs, now)
	default:
		return 0, appErrors.Clone(appErrors.ErrValidation, "ids or all is required")
	}
	if err != nil {
		return 0, appErrors.Storage(err, "failed to mark notifications read")
	}
	s.invalidateUnread(ctx, userID)
	return affected, nil
}

// UnreadCount returns the number of unread notifications for the user.
//
// Cached counts carry the user's unread generation, which every write bumps.
// A count read before a concurrent write is stored under the old generation
// and is never served afterwards.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	generation, cacheable := s.unreadGeneration(ctx, userID)
	key := unreadCacheKey(userID)
	if cacheable {
		var cached unreadSnapshot
		if hit, _ := s.cache.Get(ctx, key, &cached); hit && cached.Generation == generation {
			return cached.Count, nil
		}
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, appErrors.Storage(err, "failed to count unread notifications")
	}
	if cacheable {
		_ = s.cache.Set(ctx, key, unreadSnapshot{Generation: generation, Count: count}, s.config.UnreadCacheTTL)
	}
	return count, nil
}

type unreadSnapshot struct {
	Generation string `json:"generation"`
	Count      int    `json:"count"`
}

// unreadGeneration reads the current generation token. An unset token is the
// empty generation; a cache failure disables caching for the call.
func (s *NotificationService) unreadGeneration(ctx context.Context, userID string) (string, bool) {
	if !s.cache.Enabled() {
		return "", false
	}
	var generation string
	hit, err := s.cache.Get(ctx, unreadGenerationKey(userID), &generation)
	if err != nil {
		return "", false
	}
	if !hit {
		return "", true
	}
	return generation, true
}

// List returns the user's inbox newest first.
func (s *NotificationService) List(ctx context.Context, userID string, query dto.NotificationQuery) ([]models.Notification, *models.Pagination, error) {
	filter := models.NotificationFilter{
		UserID:     userID,
		UnreadOnly: query.UnreadOnly,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list notifications")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Settings returns the user's stored preferences or the defaults.
func (s *NotificationService) Settings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return s.loadSettings(ctx, userID)
}

// UpdateSettings applies the provided fields on top of the current preferences.
func (s *NotificationService) UpdateSettings(ctx context.Context, userID string, req dto.UpdateNotificationSettingsRequest) (*models.NotificationSettings, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification settings")
	}
	if (req.QuietHoursStart == nil) != (req.QuietHoursEnd == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quietHoursStart and quietHoursEnd must be set together")
	}
	if s.settings == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "notification settings storage unavailable")
	}
	settings, err := s.loadSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyBool(&settings.InAppEnabled, req.InAppEnabled)
	applyBool(&settings.EmailEnabled, req.EmailEnabled)
	applyBool(&settings.WhatsAppEnabled, req.WhatsAppEnabled)
	applyBool(&settings.TaskReminders, req.TaskReminders)
	applyBool(&settings.AppointmentReminders, req.AppointmentReminders)
	applyBool(&settings.QuoteUpdates, req.QuoteUpdates)
	applyBool(&settings.SystemAlerts, req.SystemAlerts)
	applyBool(&settings.WorkdaysOnly, req.WorkdaysOnly)
	if req.Intensity != nil {
		settings.Intensity = *req.Intensity
	}
	if req.ClearQuietHours {
		settings.QuietHoursStart, settings.QuietHoursEnd = nil, nil
	} else if req.QuietHoursStart != nil {
		settings.QuietHoursStart, settings.QuietHoursEnd = req.QuietHoursStart, req.QuietHoursEnd
	}
	settings.UpdatedAt = s.now()
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Storage(err, "failed to save notification settings")
	}
	return settings, nil
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func (s *NotificationService) loadSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	if s.settings == nil {
		return models.DefaultNotificationSettings(userID), nil
	}
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultNotificationSettings(userID), nil
		}
		return nil, appErrors.Storage(err, "failed to load notification settings")
	}
	if settings == nil {
		return models.DefaultNotificationSettings(userID), nil
	}
	return settings, nil
}

// deliverSecondary pushes the notification to EMAIL or WHATSAPP when the user
// enabled that channel, the shop enabled it and the user is not in quiet hours.
// Quiet hours defer only these channels; the in-app row already exists.
func (s *NotificationService) deliverSecondary(ctx context.Context, requested models.NotificationChannel, settings *models.NotificationSettings, n *models.Notification) {
	if s.channels == nil {
		return
	}
	var enabled bool
	switch requested {
	case models.ChannelEmail:
		enabled = settings.EmailEnabled && s.config.EmailEnabled
	case models.ChannelWhatsApp:
		enabled = settings.WhatsAppEnabled && s.config.WhatsAppEnabled
	default:
		return
	}
	if !enabled {
		return
	}
	if s.policy.IsQuietNow(settings, s.now()) {
		s.logger.Debug("secondary channel deferred by quiet hours",
			zap.String("user_id", n.UserID),
			zap.String("channel", string(requested)),
			zap.String("notification_id", n.ID))
		return
	}
	if err := s.channels.Dispatch(ctx, requested, n); err != nil {
		s.logger.Warn("secondary channel delivery failed",
			zap.String("user_id", n.UserID),
			zap.String("channel", string(requested)),
			zap.String("notification_id", n.ID),
			zap.Error(err))
	}
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Set(ctx, unreadGenerationKey(userID), uuid.NewString(), unreadGenerationTTL)
	_ = s.cache.Invalidate(ctx, unreadCacheKey(userID))
}

func (s *NotificationService) record(t models.NotificationType, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordNotification(t, outcome)
	}
}

func unreadCacheKey(userID string) string {
	return "notifications:unread:" + userID
}

func unreadGenerationKey(userID string) string {
	return "notifications:unread-gen:" + userID
}

// Package app assembles the services shared by the API server and the SLA sweeper.
package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/workshop-ot-api/internal/models"
	"github.com/noah-isme/workshop-ot-api/internal/repository"
	"github.com/noah-isme/workshop-ot-api/internal/service"
	"github.com/noah-isme/workshop-ot-api/pkg/config"
	"github.com/noah-isme/workshop-ot-api/pkg/jobs"
)

// Services holds the wired application services.
type Services struct {
	Metrics       *service.MetricsService
	Audit         *service.AuditService
	Notifications *service.NotificationService
	WorkOrders    *service.WorkOrderService
	Tokens        *service.TokenService
	Delivery      *service.ChannelDelivery
}

// New wires repositories and services. redisClient may be nil, in which case
// caching is disabled and transitions lock in-process.
func New(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}

	workOrderRepo := repository.NewWorkOrderRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingsRepo := repository.NewNotificationSettingsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logger)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Notifications.PollInterval, logger, redisClient != nil)
	auditSvc := service.NewAuditService(auditRepo, metrics, logger, nil)

	senders := map[models.NotificationChannel]service.ChannelSender{}
	if cfg.Notifications.EmailEnabled {
		senders[models.ChannelEmail] = service.NewLoggingSender(models.ChannelEmail, logger)
	}
	if cfg.Notifications.WhatsAppEnabled {
		senders[models.ChannelWhatsApp] = service.NewLoggingSender(models.ChannelWhatsApp, logger)
	}
	delivery := service.NewChannelDelivery(senders, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.Retries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, metrics, logger)

	notificationSvc := service.NewNotificationService(
		notificationRepo,
		settingsRepo,
		service.NewNotificationPolicy(cfg.Notifications.Location()),
		service.NotificationServiceConfig{
			DedupWindow:     cfg.Notifications.DedupWindow,
			UnreadCacheTTL:  cfg.Notifications.PollInterval,
			EmailEnabled:    cfg.Notifications.EmailEnabled,
			WhatsAppEnabled: cfg.Notifications.WhatsAppEnabled,
		},
		logger,
		service.WithNotificationChannels(delivery),
		service.WithNotificationCache(cacheSvc),
		service.WithNotificationMetrics(metrics),
		service.WithNotificationAudit(auditSvc),
	)

	workOrderSvc := service.NewWorkOrderService(workOrderRepo, auditSvc, logger,
		service.WithWorkOrderLocker(newLocker(cfg.WorkOrders, redisClient, logger)),
		service.WithWorkOrderNotifier(notificationSvc),
		service.WithWorkOrderMetrics(metrics),
	)

	return &Services{
		Metrics:       metrics,
		Audit:         auditSvc,
		Notifications: notificationSvc,
		WorkOrders:    workOrderSvc,
		Tokens:        service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer),
		Delivery:      delivery,
	}
}

func newLocker(cfg config.WorkOrdersConfig, client *redis.Client, logger *zap.Logger) service.Locker {
	if cfg.LockBackend == config.LockBackendRedis {
		if client != nil {
			return repository.NewRedisLocker(client, cfg.LockTTL, logger)
		}
		logger.Warn("redis lock backend requested without redis; using in-process locks")
	}
	return service.NewKeyedMutex()
}

// Start launches background secondary-channel delivery.
func (s *Services) Start(ctx context.Context) {
	s.Delivery.Start(ctx)
}

// Stop drains background delivery, waiting at most timeout.
func (s *Services) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.Delivery.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

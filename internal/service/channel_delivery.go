package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/workshop-ot-api/internal/models"
	"github.com/noah-isme/workshop-ot-api/pkg/jobs"
)

// ChannelSender pushes a notification through one external medium.
type ChannelSender interface {
	Send(ctx context.Context, n *models.Notification) error
}

// LoggingSender records deliveries in the log instead of calling a provider.
// It stands in for EMAIL and WHATSAPP until provider credentials are configured.
type LoggingSender struct {
	channel models.NotificationChannel
	logger  *zap.Logger
}

// NewLoggingSender constructs a sender for channel.
func NewLoggingSender(channel models.NotificationChannel, logger *zap.Logger) *LoggingSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingSender{channel: channel, logger: logger}
}

// Send logs the delivery.
func (s *LoggingSender) Send(_ context.Context, n *models.Notification) error {
	s.logger.Info("notification delivered",
		zap.String("channel", string(s.channel)),
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.String("type", string(n.Type)),
		zap.String("title", n.Title))
	return nil
}

type channelSendMetrics interface {
	RecordChannelSend(channel models.NotificationChannel, ok bool)
}

type channelJob struct {
	channel      models.NotificationChannel
	notification *models.Notification
}

// ChannelDelivery is the ChannelDispatcher used by NotificationService. While
// its queue runs, deliveries are asynchronous and retried; otherwise they are
// sent inline once.
type ChannelDelivery struct {
	senders map[models.NotificationChannel]ChannelSender
	queue   *jobs.Queue
	metrics channelSendMetrics
	logger  *zap.Logger
}

// NewChannelDelivery wires senders to a worker queue built from cfg.
func NewChannelDelivery(senders map[models.NotificationChannel]ChannelSender, cfg jobs.QueueConfig, metrics channelSendMetrics, logger *zap.Logger) *ChannelDelivery {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &ChannelDelivery{senders: senders, metrics: metrics, logger: logger}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	cfg.OnFailure = func(job jobs.Job, err error) {
		if payload, ok := job.Payload.(channelJob); ok {
			d.logger.Error("notification delivery abandoned",
				zap.String("channel", string(payload.channel)),
				zap.String("notification_id", payload.notification.ID),
				zap.Int("attempts", job.Attempt),
				zap.Error(err))
		}
	}
	d.queue = jobs.NewQueue("notification-channels", d.handle, cfg)
	return d
}

// Start launches the delivery workers.
func (d *ChannelDelivery) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (d *ChannelDelivery) Stop() {
	d.queue.Stop()
}

// Dispatch hands n to the sender registered for channel. It never waits on a
// full queue: the delivery is dropped and logged instead.
func (d *ChannelDelivery) Dispatch(ctx context.Context, channel models.NotificationChannel, n *models.Notification) error {
	if n == nil {
		return errors.New("nil notification")
	}
	if _, ok := d.senders[channel]; !ok {
		return fmt.Errorf("no sender registered for channel %s", channel)
	}
	job := jobs.Job{
		ID:      n.ID + ":" + string(channel),
		Type:    string(channel),
		Payload: channelJob{channel: channel, notification: n},
	}
	err := d.queue.TryEnqueue(job)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jobs.ErrNotStarted):
		return d.handle(ctx, job)
	case errors.Is(err, jobs.ErrQueueFull):
		d.logger.Warn("notification delivery dropped, queue full",
			zap.String("channel", string(channel)),
			zap.String("notification_id", n.ID))
		if d.metrics != nil {
			d.metrics.RecordChannelSend(channel, false)
		}
	}
	return err
}

func (d *ChannelDelivery) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(channelJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	sender := d.senders[payload.channel]
	err := sender.Send(ctx, payload.notification)
	if d.metrics != nil {
		d.metrics.RecordChannelSend(payload.channel, err == nil)
	}
	if err != nil {
		return fmt.Errorf("send via %s: %w", payload.channel, err)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/workshop-ot-api/internal/app"
	"github.com/noah-isme/workshop-ot-api/internal/service"
	"github.com/noah-isme/workshop-ot-api/pkg/cache"
	"github.com/noah-isme/workshop-ot-api/pkg/config"
	"github.com/noah-isme/workshop-ot-api/pkg/database"
	"github.com/noah-isme/workshop-ot-api/pkg/logger"
)

// sla-sweeper alerts technicians and advisors about overdue work orders. It
// runs once by default (for cron) or every SLA_SWEEP_INTERVAL with -loop.
func main() {
	loop := flag.Bool("loop", false, "keep sweeping every SLA_SWEEP_INTERVAL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	logr = logr.With(zap.String("component", "sla-sweeper"))

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	services := app.New(cfg, db, redisClient, service.NewMetricsService(), logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep(ctx, services.WorkOrders, logr)
	if !*loop {
		return
	}

	ticker := time.NewTicker(cfg.WorkOrders.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logr.Info("sweeper stopped")
			return
		case <-ticker.C:
			sweep(ctx, services.WorkOrders, logr)
		}
	}
}

func sweep(ctx context.Context, workOrders *service.WorkOrderService, logr *zap.Logger) {
	start := time.Now()
	count, err := workOrders.SweepOverdue(ctx)
	if err != nil {
		logr.Error("overdue sweep failed", zap.Error(err))
		return
	}
	logr.Info("overdue sweep finished", zap.Int("overdue", count), zap.Duration("took", time.Since(start)))
}

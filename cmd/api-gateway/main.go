package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/workshop-ot-api/api/swagger"
	"github.com/noah-isme/workshop-ot-api/internal/app"
	"github.com/noah-isme/workshop-ot-api/internal/handler"
	"github.com/noah-isme/workshop-ot-api/internal/middleware"
	"github.com/noah-isme/workshop-ot-api/internal/models"
	"github.com/noah-isme/workshop-ot-api/internal/service"
	"github.com/noah-isme/workshop-ot-api/pkg/cache"
	"github.com/noah-isme/workshop-ot-api/pkg/config"
	"github.com/noah-isme/workshop-ot-api/pkg/database"
	"github.com/noah-isme/workshop-ot-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/workshop-ot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/workshop-ot-api/pkg/middleware/requestid"
)

// @title Workshop Work Order API
// @version 1.0.0
// @description Work order lifecycle, audit trail and notifications for the repair shop
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

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

	metrics := service.NewMetricsService()
	services := app.New(cfg, db, redisClient, metrics, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	services.Start(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), services, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	services.Stop(5 * time.Second)
	logr.Info("server stopped")
}

func registerRoutes(api *gin.RouterGroup, services *app.Services, cfg *config.Config) {
	workOrders := handler.NewWorkOrderHandler(services.WorkOrders)
	notifications := handler.NewNotificationHandler(services.Notifications, cfg.Notifications.PollInterval)
	audit := handler.NewAuditHandler(services.Audit)

	api.Use(middleware.JWT(services.Tokens))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleAdvisor, models.RoleTechnician)
	supervisors := middleware.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleAdvisor)

	wo := api.Group("/work-orders/:id", staff)
	wo.GET("", workOrders.Get)
	wo.GET("/sla", workOrders.SLA)
	wo.POST("/advance", workOrders.Advance)
	wo.POST("/pause", workOrders.Pause)
	wo.POST("/resume", workOrders.Resume)
	wo.POST("/assign", supervisors, workOrders.Assign)
	wo.POST("/evidence", workOrders.AddEvidence)
	wo.POST("/notes", workOrders.AddNote)
	wo.PUT("/checklists/:phase/items/:itemId", workOrders.SetChecklistItem)
	wo.POST("/signatures/:kind", workOrders.Sign)

	inbox := api.Group("/notifications", staff)
	inbox.GET("", notifications.List)
	inbox.GET("/unread-count", notifications.UnreadCount)
	inbox.POST("/read", notifications.MarkRead)
	inbox.GET("/settings", notifications.Settings)
	inbox.PUT("/settings", notifications.UpdateSettings)

	api.GET("/audit-events", middleware.RequireRoles(models.RoleAdmin), audit.List)
}

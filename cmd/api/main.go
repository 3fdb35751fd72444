package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorhive/tutorhive-api/api/swagger"
	"github.com/tutorhive/tutorhive-api/internal/handler"
	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/repository"
	"github.com/tutorhive/tutorhive-api/internal/service"
	"github.com/tutorhive/tutorhive-api/migrations"
	"github.com/tutorhive/tutorhive-api/pkg/cache"
	"github.com/tutorhive/tutorhive-api/pkg/config"
	"github.com/tutorhive/tutorhive-api/pkg/database"
	"github.com/tutorhive/tutorhive-api/pkg/jobs"
	"github.com/tutorhive/tutorhive-api/pkg/logger"
	corsmiddleware "github.com/tutorhive/tutorhive-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorhive/tutorhive-api/pkg/middleware/requestid"
)

// @title TutorHive Booking API
// @version 1.0.0
// @description Booking and session scheduling engine for the tutoring marketplace
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, migrations.FS); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	validate := validator.New()
	service.RegisterHourSlotValidation(validate)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	availabilityRepo := repository.NewAvailabilityRepository(db)
	gigRepo := repository.NewGigRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewBookingSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo, nil, metricsSvc, jobs.QueueConfig{
		Workers:    cfg.Notifications.WorkerConcurrency,
		MaxRetries: cfg.Notifications.WorkerRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}, logr)
	notificationSvc.StartWorkers(ctx)
	defer notificationSvc.StopWorkers()

	availabilitySvc := service.NewAvailabilityService(availabilityRepo, service.AvailabilityConfig{
		DefaultStartHour: cfg.Availability.DefaultStartHour,
		DefaultEndHour:   cfg.Availability.DefaultEndHour,
	}, validate, logr)
	catalogSvc := service.NewCatalogService(gigRepo, studentRepo, logr)

	var draftSvc *service.DraftService
	if cfg.Drafts.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		draftSvc = service.NewDraftService(repository.NewDraftRepository(redisClient), cfg.Drafts.TTL, logr)
	}

	var draftCleaner interface {
		Delete(ctx context.Context, parentID, gigID string) error
	}
	if draftSvc != nil {
		draftCleaner = draftSvc
	}

	bookingSvc := service.NewBookingService(
		gigRepo,
		studentRepo,
		availabilitySvc,
		bookingRepo,
		sessionRepo,
		db,
		notificationSvc,
		draftCleaner,
		metricsSvc,
		service.BookingConfig{
			MaxSessionsPerWeek: cfg.Booking.MaxSessionsPerWeek,
			MaxTotalSessions:   cfg.Booking.MaxTotalSessions,
		},
		validate,
		logr,
	)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(bookingSvc, logr)
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	gigHandler := handler.NewGigHandler(catalogSvc, bookingSvc)
	studentHandler := handler.NewStudentHandler(catalogSvc)
	var bookingHandler *handler.BookingHandler
	if exportSvc != nil {
		bookingHandler = handler.NewBookingHandler(bookingSvc, exportSvc)
	} else {
		bookingHandler = handler.NewBookingHandler(bookingSvc, nil)
	}
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(tokenSvc)

	api.GET("/teachers/:id/availability", availabilityHandler.Get)
	api.PUT("/teachers/availability", auth, middleware.RequireRoles(models.RoleTeacher), availabilityHandler.Upsert)

	api.GET("/gigs", gigHandler.List)
	api.GET("/gigs/:id", gigHandler.Get)
	api.GET("/gigs/:id/slots", gigHandler.Slots)
	api.POST("/gigs/:id/session-dates", gigHandler.PreviewDates)

	api.GET("/students", auth, middleware.RequireRoles(models.RoleParent), studentHandler.List)

	bookings := api.Group("/bookings", auth)
	bookings.POST("", middleware.RequireRoles(models.RoleParent), bookingHandler.Create)
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.POST("/:id/accept", middleware.RequireRoles(models.RoleTeacher), bookingHandler.Accept)
	bookings.POST("/:id/decline", middleware.RequireRoles(models.RoleTeacher), bookingHandler.Decline)
	bookings.POST("/:id/cancel", bookingHandler.Cancel)
	bookings.POST("/:id/payment-confirmed", middleware.RequireRoles(models.RoleAdmin), bookingHandler.ConfirmPayment)
	bookings.POST("/:id/sessions/:number/complete", middleware.RequireRoles(models.RoleTeacher), bookingHandler.CompleteSession)
	bookings.GET("/:id/export", bookingHandler.Export)

	if draftSvc != nil {
		draftHandler := handler.NewDraftHandler(draftSvc)
		drafts := api.Group("/drafts", auth, middleware.RequireRoles(models.RoleParent))
		drafts.GET("/:gigId", draftHandler.Get)
		drafts.PUT("/:gigId", draftHandler.Save)
		drafts.DELETE("/:gigId", draftHandler.Delete)
	}

	notifications := api.Group("/notifications", auth)
	notifications.GET("", notificationHandler.List)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

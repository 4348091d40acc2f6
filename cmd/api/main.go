package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/config"
	"github.com/vetcare/clinic-api/internal/email"
	"github.com/vetcare/clinic-api/internal/gateway"
	"github.com/vetcare/clinic-api/internal/handler"
	appointmentHandler "github.com/vetcare/clinic-api/internal/handler/appointment"
	reminderHandler "github.com/vetcare/clinic-api/internal/handler/reminder"
	scheduleHandler "github.com/vetcare/clinic-api/internal/handler/schedule"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository/postgres"
	"github.com/vetcare/clinic-api/internal/router"
	appointmentService "github.com/vetcare/clinic-api/internal/service/appointment"
	confirmationService "github.com/vetcare/clinic-api/internal/service/confirmation"
	"github.com/vetcare/clinic-api/internal/service/notification"
	reminderService "github.com/vetcare/clinic-api/internal/service/reminder"
	scheduleService "github.com/vetcare/clinic-api/internal/service/schedule"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/messaging"
	"github.com/vetcare/clinic-api/pkg/messaging/redis"
	"github.com/vetcare/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := model.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	petRepo := postgres.NewPetRepository(db)
	reminderConfigRepo := postgres.NewReminderConfigRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)

	directory := gateway.NewDirectory(userRepo, petRepo)
	emailSvc := email.NewSMTPService(cfg.SMTP)
	notifier := notification.NewService(emailSvc, directory, appLogger)
	hasher := security.NewBcryptHasher(0)

	// The API keeps serving without the broker; events are logged and dropped.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &appLogger.ZL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	appointmentSvc := appointmentService.NewService(appointmentRepo, directory, notifier, broker, appLogger)
	scheduleSvc := scheduleService.NewService(appointmentRepo, directory, appLogger)
	confirmationSvc := confirmationService.NewService(appointmentRepo, tokenRepo, hasher, appLogger)
	reminderSvc := reminderService.NewService(
		appointmentRepo, reminderConfigRepo, tokenRepo, directory, notifier, hasher, appLogger,
		reminderService.Options{
			ConfirmationBaseURL: cfg.Reminder.ConfirmationBaseURL,
			TokenTTL:            time.Duration(cfg.Reminder.TokenTTLHours) * time.Hour,
		},
	)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	h := handler.NewHandler(db)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, confirmationSvc)
	scheduleH := scheduleHandler.NewHandler(scheduleSvc, authMiddleware)
	reminderH := reminderHandler.NewHandler(reminderSvc, authMiddleware)

	r := router.NewRouter(authMiddleware, appointmentH, scheduleH, reminderH, h, router.Config{
		Timeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "forced server shutdown")
	}
}

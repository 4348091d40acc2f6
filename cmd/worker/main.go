package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/config"
	"github.com/vetcare/clinic-api/internal/email"
	"github.com/vetcare/clinic-api/internal/gateway"
	"github.com/vetcare/clinic-api/internal/repository/postgres"
	"github.com/vetcare/clinic-api/internal/service/notification"
	reminderService "github.com/vetcare/clinic-api/internal/service/reminder"
	"github.com/vetcare/clinic-api/internal/worker"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/metrics"
	"github.com/vetcare/clinic-api/pkg/security"
)

// envOverrides lets deployments tune the worker without editing the shared
// config file.
type envOverrides struct {
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL"`
	MetricsPort   int           `envconfig:"METRICS_PORT" default:"8081"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env envOverrides
	if err := envconfig.Process("REMINDER_WORKER", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to process environment overrides")
	}

	interval := cfg.Reminder.SweepInterval
	if env.SweepInterval > 0 {
		interval = env.SweepInterval
	}

	appLogger := logger.NewLogger(nil).WithFields(map[string]interface{}{
		"component": "reminder-worker",
	})

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

	m := metrics.NewMetrics("vetcare", "reminder")

	reminderSvc := reminderService.NewService(
		appointmentRepo, reminderConfigRepo, tokenRepo, directory, notifier, hasher, appLogger,
		reminderService.Options{
			ConfirmationBaseURL: cfg.Reminder.ConfirmationBaseURL,
			TokenTTL:            time.Duration(cfg.Reminder.TokenTTLHours) * time.Hour,
			Metrics:             m,
		},
	)

	startOpsServer(env.MetricsPort, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewReminderWorker(reminderSvc, interval, m, appLogger)
	w.Start(ctx)
}

func startOpsServer(port int, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		appLogger.Info("ops server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Error(err, "ops server failed")
			os.Exit(1)
		}
	}()
}

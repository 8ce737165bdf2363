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

	"github.com/medipoint/clinic-api/internal/config"
	appointmentHandler "github.com/medipoint/clinic-api/internal/handler/appointment"
	doctorHandler "github.com/medipoint/clinic-api/internal/handler/doctor"
	healthHandler "github.com/medipoint/clinic-api/internal/handler/health"
	requestHandler "github.com/medipoint/clinic-api/internal/handler/request"
	"github.com/medipoint/clinic-api/internal/middleware"
	"github.com/medipoint/clinic-api/internal/repository/postgres"
	"github.com/medipoint/clinic-api/internal/router"
	appointmentService "github.com/medipoint/clinic-api/internal/service/appointment"
	auditService "github.com/medipoint/clinic-api/internal/service/audit"
	doctorService "github.com/medipoint/clinic-api/internal/service/doctor"
	"github.com/medipoint/clinic-api/internal/service/notification"
	requestService "github.com/medipoint/clinic-api/internal/service/request"
	"github.com/medipoint/clinic-api/pkg/auth"
	"github.com/medipoint/clinic-api/pkg/lock"
	"github.com/medipoint/clinic-api/pkg/logger"
	"github.com/medipoint/clinic-api/pkg/messaging/redis"
	"github.com/medipoint/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = *logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
	}).Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	requestRepo := postgres.NewClinicRequestRepository(base)
	logRepo := postgres.NewRequestLogRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)

	// Redis carries the per-subject submission lock and, when enabled, the
	// notification channel consumed by cmd/worker.
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	lockTTL := cfg.Redis.LockTTL
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	locker := lock.NewRedisSubjectLocker(broker.(*redis.RedisBroker).Client(), lockTTL)

	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.Notification.Enabled {
		notifier = notification.NewBrokerNotifier(broker)
	}

	auditor := auditService.NewService(logRepo)
	requestSvc := requestService.NewService(requestRepo, auditor, notifier, locker, requestService.SystemClock(), requestService.Config{
		MaxPerWindow: cfg.Admission.MaxPerWindow,
		Window:       cfg.Admission.Window,
	})
	doctorSvc := doctorService.NewService(doctorRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorSvc, requestService.SystemClock())

	appMetrics := metrics.NewMetrics("clinic", "api")
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		requestHandler.NewHandler(requestSvc, appMetrics),
		appointmentHandler.NewHandler(appointmentSvc),
		doctorHandler.NewHandler(doctorSvc),
		healthHandler.NewHandler(db),
		router.Config{
			RateLimitEnabled:  cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			CORS:              middleware.DefaultCORSConfig(),
			MetricsNamespace:  "clinic",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

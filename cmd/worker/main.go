package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/medipoint/clinic-api/internal/config"
	"github.com/medipoint/clinic-api/internal/email"
	"github.com/medipoint/clinic-api/internal/service/notification"
	"github.com/medipoint/clinic-api/pkg/logger"
	"github.com/medipoint/clinic-api/pkg/messaging/redis"
)

var (
	processedNotices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_notices_processed_total",
		Help: "The total number of delivered request notices",
	})
	failedNotices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_notices_failed_total",
		Help: "The total number of request notices that failed delivery",
	})
)

// The notification worker drains the clinic-request channel and delivers
// email notices to the staff inbox. Delivery is best-effort; a failed notice
// is logged and counted, never retried into the request path.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = *logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
	}).Zerolog()

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

	emailSvc := email.NewSMTPService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := broker.Subscribe(ctx, notification.Channel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to notification channel")
	}

	go func() {
		for payload := range messages {
			var msg notification.Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				failedNotices.Inc()
				log.Warn().Err(err).Msg("dropping malformed notice")
				continue
			}

			if err := emailSvc.SendRequestNotice(ctx, cfg.Email.StaffInbox, msg.PatientName, msg.RequestID.String()); err != nil {
				failedNotices.Inc()
				log.Warn().Err(err).
					Str("request_id", msg.RequestID.String()).
					Msg("notice delivery failed")
				continue
			}

			processedNotices.Inc()
			log.Info().
				Str("request_id", msg.RequestID.String()).
				Str("patient_id", msg.PatientID).
				Msg("request notice delivered")
		}
	}()

	log.Info().Msg("notification worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down notification worker...")
}

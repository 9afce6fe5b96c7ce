// The worker binary runs the outbox relay on its own, for deployments
// that keep event delivery out of the API process. It is configured
// entirely from the environment.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/seikotsu/booking-api/internal/repository/postgres"
	"github.com/seikotsu/booking-api/pkg/logger"
	"github.com/seikotsu/booking-api/pkg/messaging/redis"
	"github.com/seikotsu/booking-api/pkg/metrics"
	"github.com/seikotsu/booking-api/pkg/worker"
)

type workerConfig struct {
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL      string        `envconfig:"REDIS_URL" required:"true"`
	HealthAddr    string        `envconfig:"HEALTH_ADDR" default:":8081"`
	BatchSize     int           `envconfig:"BATCH_SIZE" default:"50"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"2s"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"1s"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("WORKER", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewBroker(redis.Config{URL: cfg.RedisURL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.BatchSize,
			PollInterval:  cfg.PollInterval,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
		},
		appLogger,
		metrics.NewMetrics("booking_worker", "outbox"),
	)

	startHealthServer(cfg.HealthAddr, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down worker")
		cancel()
	}()

	processor.Start(ctx)
}

func startHealthServer(addr string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Fatal(err, "health server failed")
		}
	}()
}

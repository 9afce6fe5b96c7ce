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

	"github.com/seikotsu/booking-api/config"
	"github.com/seikotsu/booking-api/internal/email"
	"github.com/seikotsu/booking-api/internal/handler"
	adminHandler "github.com/seikotsu/booking-api/internal/handler/admin"
	authHandler "github.com/seikotsu/booking-api/internal/handler/auth"
	bookingHandler "github.com/seikotsu/booking-api/internal/handler/booking"
	catalogHandler "github.com/seikotsu/booking-api/internal/handler/catalog"
	profileHandler "github.com/seikotsu/booking-api/internal/handler/profile"
	"github.com/seikotsu/booking-api/internal/middleware"
	"github.com/seikotsu/booking-api/internal/repository/postgres"
	"github.com/seikotsu/booking-api/internal/router"
	authService "github.com/seikotsu/booking-api/internal/service/auth"
	bookingService "github.com/seikotsu/booking-api/internal/service/booking"
	"github.com/seikotsu/booking-api/internal/service/bookingflow"
	catalogService "github.com/seikotsu/booking-api/internal/service/catalog"
	eventService "github.com/seikotsu/booking-api/internal/service/event"
	profileService "github.com/seikotsu/booking-api/internal/service/profile"
	"github.com/seikotsu/booking-api/internal/service/scheduler"
	"github.com/seikotsu/booking-api/pkg/auth"
	"github.com/seikotsu/booking-api/pkg/logger"
	"github.com/seikotsu/booking-api/pkg/messaging/redis"
	"github.com/seikotsu/booking-api/pkg/metrics"
	"github.com/seikotsu/booking-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewBroker(cfg.Redis.ToBrokerConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Repositories
	bookingRepo := postgres.NewBookingRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.ToAuthConfig())
	mailer := newMailer(cfg)
	eventSvc := eventService.NewService(outboxRepo)
	bookingSvc := bookingService.NewService(bookingRepo, eventSvc, appLogger)
	catalogSvc := catalogService.NewService(serviceRepo)
	profileSvc := profileService.NewService(profileRepo)
	authSvc := authService.NewService(userRepo, profileRepo, tokenRepo, jwtSvc, mailer, appLogger)
	flow := bookingflow.NewFlow(catalogSvc, bookingSvc, profileSvc, appLogger)
	schedSvc := scheduler.NewScheduler(bookingSvc, appLogger)

	// HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(authSvc, cfg.Auth.AdminEmails)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		catalogHandler.NewHandler(catalogSvc),
		profileHandler.NewHandler(profileSvc),
		bookingHandler.NewHandler(flow, bookingSvc),
		adminHandler.NewHandler(bookingSvc, schedSvc, broker, appLogger),
		h,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     corsConfig(cfg),
			MetricsPrefix:  "booking_api",
		},
	)

	// In-process outbox relay. The standalone worker binary runs the same
	// processor for deployments that separate the two.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		cfg.Outbox.ToWorkerConfig(),
		appLogger,
		metrics.NewMetrics("booking_api", "outbox"),
	)
	go processor.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
}

func newMailer(cfg *config.Config) email.Sender {
	if cfg.SMTP.Host == "" {
		return email.NopSender{}
	}
	return email.NewSMTPSender(cfg.SMTP.ToEmailConfig())
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowOrigins
	}
	return c
}

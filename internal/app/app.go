package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/config"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/mail"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/payment"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/postgres"
	redisx "github.com/AlinaTheCoder/TouristGuide-Backend/internal/redis"
	postgresrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/postgres"
	redisrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/scheduler"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/booking"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/schedule"
	httpgin "github.com/AlinaTheCoder/TouristGuide-Backend/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	scheduler  *scheduler.Scheduler
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	if err := postgresrepo.Migrate(context.Background(), dsn); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewActivitiesPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.KeyRateLimit("intent"), 10, time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// External gateways
	gate := payment.New(cfg.Stripe.SecretKey)
	mailer := mail.New(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, gate, mailer, service.Config{
		Booking: booking.Config{
			SameDayBuffer:   time.Duration(cfg.Booking.SameDayBufferMinutes) * time.Minute,
			AvailabilityTTL: cfg.Booking.AvailabilityTTL,
		},
		Schedule: schedule.Config{},
	}, logger)

	// Maintenance jobs
	sched := scheduler.New(logger,
		scheduler.NewFeedbackReminderJob(
			store.Bookings(),
			store.Activities(),
			store.Users(),
			mailer,
			cfg.Booking.ReminderInterval,
			logger,
		),
		scheduler.NewExpiredActivitiesJob(
			store.Activities(),
			store.Capacity(),
			time.Duration(cfg.Booking.SameDayBufferMinutes)*time.Minute,
			cfg.Booking.ExpirySweepInterval,
			logger,
		),
	)

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, cfg.Auth.JWTSecret, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		scheduler: sched,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Start maintenance jobs
	g.Go(func() error {
		a.scheduler.Start(gCtx)
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

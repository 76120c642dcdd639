package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pear651530/Meal-Provider/internal/api"
	"github.com/pear651530/Meal-Provider/internal/api/handler"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
	"github.com/pear651530/Meal-Provider/internal/core/service"
	"github.com/pear651530/Meal-Provider/internal/infrastructure/audit"
	"github.com/pear651530/Meal-Provider/internal/infrastructure/db/memory"
	mongodb "github.com/pear651530/Meal-Provider/internal/infrastructure/db/mongo"
	redisdb "github.com/pear651530/Meal-Provider/internal/infrastructure/db/redis"
	"github.com/pear651530/Meal-Provider/internal/infrastructure/queue"
	"github.com/pear651530/Meal-Provider/internal/infrastructure/upstream"
	"github.com/pear651530/Meal-Provider/internal/pkg/config"
	"github.com/pear651530/Meal-Provider/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var errConsumerClosed = errors.New("billing consumer connection closed")

func newServeCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadContext(cmd.Context(), envFile)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.Development(),
				Service: "mealportal",
			})
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	return cmd
}

func serve(parent context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.Check{}

	// --- Session store ---
	var (
		store ports.TokenStore
		dedup service.DedupChecker
	)
	switch cfg.Session.Store {
	case "memory":
		store = memory.NewTokenStore(cfg.Session.TTL)
		dedup = memory.NewDedupChecker()
	default:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = redisdb.NewTokenStore(rdb, cfg.Session.TTL)
		dedup = redisdb.NewDedupChecker(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// --- Audit trail ---
	var auditRepo ports.AuditRepository = audit.NewLogRepository(log)
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not ensured")
		}
		auditRepo = repo
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}

	// --- Upstream services ---
	up := cfg.Upstream
	users := upstream.NewUserClient(up.UserURL, up.APIKey, up.Timeout, log)
	orders := upstream.NewOrderClient(up.OrderURL, up.Timeout, log)
	admin := upstream.NewAdminClient(up.AdminURL, up.Timeout, log)
	checks["user_service"] = users.Ping
	checks["order_service"] = orders.Ping
	checks["admin_service"] = admin.Ping

	// --- Services ---
	sessions := service.NewSessionManager(store, users, cfg.Session.TTL, log)
	deps := api.Deps{
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		Sessions:  sessions,
		Auth:      service.NewAuthService(users, cfg.JWTSecret, cfg.Session.TTL, log),
		Records:   service.NewRecordsService(users, admin, up.FanOut, log),
		Menu:      service.NewMenuService(admin, users, auditRepo, up.FanOut, log),
		Orders:    service.NewOrderService(orders, admin, auditRepo, log),
		Staff:     service.NewStaffService(users, orders, admin, auditRepo, log),
		Checks:    checks,
	}

	// --- Billing events ---
	if cfg.RabbitMQ.URL != "" {
		billingLog := logger.Component(log, "billing")
		dispatcher := queue.NewDispatcher(cfg.RabbitMQ.Workers, service.NewBillingEventService(sessions, dedup, billingLog), billingLog)
		dispatcher.Start(ctx)

		consumer, err := queue.NewConsumer(queue.ConsumerConfig{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			Queue:      cfg.RabbitMQ.Queue,
		}, dispatcher, billingLog)
		if err != nil {
			return err
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("billing consumer stopped")
			}
		}()
		checks["rabbitmq"] = func(context.Context) error {
			if !consumer.Healthy() {
				return errConsumerClosed
			}
			return nil
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set, billing events disabled")
	}

	// --- HTTP server ---
	e := api.NewRouter(deps)
	go func() {
		log.Info().Str("port", cfg.Port).Str("session_store", cfg.Session.Store).Msg("mealportal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/freshcart/storefront/internal/api"
	"github.com/freshcart/storefront/internal/api/handler"
	"github.com/freshcart/storefront/internal/core/ports"
	"github.com/freshcart/storefront/internal/core/service"
	mongodb "github.com/freshcart/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/freshcart/storefront/internal/infrastructure/db/redis"
	"github.com/freshcart/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Connect to MongoDB and Redis, ensure indexes, reconcile the bootstrap
admin when ADMIN_EMAIL and ADMIN_PASSWORD are set, then serve the API until
SIGINT or SIGTERM.`,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.close(context.Background())
	cfg, log := env.cfg, env.log

	if err := mongodb.EnsureIndexes(ctx, env.db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// Repositories
	users := mongodb.NewUserRepository(env.db)
	admins := mongodb.NewAdminRepository(env.db)
	products := mongodb.NewProductRepository(env.db)
	carts := mongodb.NewCartRepository(env.db)
	orders := mongodb.NewOrderRepository(env.db)

	if cfg.Admin.SeedEnabled() {
		if _, err := service.EnsureAdmin(ctx, admins, service.AdminCredentials{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			Name:     cfg.Admin.Name,
		}, logger.Component("admin-seeder")); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
	}

	var tx ports.Transactor = mongodb.NewTransactor(env.client)
	if !cfg.Mongo.Transactions {
		log.Warn().Msg("MONGO_TRANSACTIONS=false: checkout writes are not atomic")
		tx = mongodb.DirectTransactor{}
	}

	// Services
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	svcs := api.Services{
		Auth:    service.NewAuthService(users, admins, tokens, logger.Component("auth")),
		Users:   service.NewUserService(users),
		Catalog: service.NewCatalogService(products, logger.Component("catalog")),
		Carts:   service.NewCartService(carts, products),
		Orders: service.NewOrderService(
			orders, carts, products, tx,
			redisdb.NewCheckoutIdempotency(rdb),
			service.OrderOptions{
				DeliveryFee:  cfg.Order.DeliveryFee,
				StrictStatus: cfg.Order.StrictStatus,
			},
			logger.Component("orders"),
		),
	}

	e := api.NewRouter(svcs, api.Options{
		Logger:      logger.Component("http"),
		CORSOrigins: cfg.CORSOrigins,
		Readiness: map[string]handler.Pinger{
			"mongodb": func(ctx context.Context) error { return env.client.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	addr := net.JoinHostPort("", cfg.Port)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting storefront api")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

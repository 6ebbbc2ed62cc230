package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/newsletter"
	"github.com/angelmondragon/storefront-backend/internal/seed"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	st, err := openStores(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	redisClient, err := openRedis(ctx, cfg, logg)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "backend", redisClient.Backend()), "kv.ready")
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	userService, err := users.NewService(st.users, cfg.Password)
	if err != nil {
		return err
	}
	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Users:          userService,
		SessionManager: sessionManager,
		SessionConfig:  cfg.Session,
		Metrics:        storefrontMetrics,
	})
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(st.catalog)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(st.cart, catalogService, storefrontMetrics)
	if err != nil {
		return err
	}
	newsletterService, err := newsletter.NewService(st.newsletter)
	if err != nil {
		return err
	}

	if cfg.Seed.Catalog {
		if err := seed.Catalog(ctx, catalogService, logg); err != nil {
			return err
		}
	}
	if err := seed.Admin(ctx, userService, cfg.Seed, logg); err != nil {
		return err
	}

	ready := map[string]controllers.Pinger{"redis": redisClient}
	if st.db != nil {
		ready["db"] = st.db
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		Auth:        authService,
		Users:       userService,
		Sessions:    sessionManager,
		Catalog:     catalogService,
		Cart:        cartService,
		Newsletter:  newsletterService,
		Redis:       redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
		Ready:       ready,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    server.Addr,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openRedis connects to Redis when configured; otherwise sessions, rate
// limits and idempotency records live in process memory.
func openRedis(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		logg.Warn(ctx, "redis not configured, using in-process key/value store")
		return redis.NewInMemory(), nil
	}
	return redis.New(ctx, cfg.Redis, logg)
}

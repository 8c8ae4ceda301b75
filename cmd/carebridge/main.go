package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carebridge/carebridge/internal/app"
	"github.com/carebridge/carebridge/internal/authz"
	"github.com/carebridge/carebridge/internal/observability"
	"github.com/carebridge/carebridge/internal/platform/cache"
	"github.com/carebridge/carebridge/internal/policy"
	"github.com/carebridge/carebridge/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pol, roles, err := loadPolicy(cfg)
	if err != nil {
		logger.Error("load policy", slog.Any("error", err))
		os.Exit(1)
	}

	registry := authz.NewRegistry(roles...)
	resolver, err := authz.NewResolver(registry, pol)
	if err != nil {
		logger.Error("build resolver", slog.Any("error", err))
		os.Exit(1)
	}
	gate := authz.NewGate(registry, resolver)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	principals := shared.NewPrincipalStore(redisClient, cfg.TokenTTL)
	metrics := observability.NewMetrics()

	authzMiddleware := authz.Middleware{Gate: gate, Logger: logger, Metrics: metrics}
	introspection := authz.NewIntrospectionHandler(logger, registry, resolver, gate, authzMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Principals:    principals,
		Registry:      registry,
		Introspection: introspection,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func loadPolicy(cfg *app.Config) (authz.Policy, []authz.Role, error) {
	if cfg.PolicyPath != "" {
		return policy.Load(cfg.PolicyPath)
	}
	return policy.Default()
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/blogsocial/internal/bootstrap"
	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/server"
	"anoa.com/blogsocial/internal/service"
	"anoa.com/blogsocial/pkg/kvstore"
	"anoa.com/blogsocial/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	store, err := kvstore.Open(kvstore.Options{Driver: cfg.StoreDriver, Path: cfg.StorePath})
	if err != nil {
		zlog.Fatal("failed to open graph store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Error("failed to close graph store", zap.Error(err))
		}
	}()

	engine := service.NewEngine(store, cfg.Params, service.NewSystemClock(), logger.Named("engine"))
	services := service.NewServices(engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sinks, err := bootstrap.ConnectSinks(ctx, cfg, services.Queries, logger.Named("sinks"))
	if err != nil {
		zlog.Fatal("failed to connect event sinks", zap.Error(err))
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			zlog.Error("failed to close event sinks", zap.Error(err))
		}
	}()
	dispatcher := event.NewDispatcher(logger.Named("events"), sinks.List()...)

	srv := server.NewServer(cfg, server.Deps{
		Services:   services,
		Dispatcher: dispatcher,
		Outbox:     sinks.Outbox,
		Redis:      sinks.Redis,
		Search:     sinks.Search,
		Limiter:    service.NewRateLimiter(sinks.RedisClient, cfg),
		Log:        logger.Named("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Error("server exited with error", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

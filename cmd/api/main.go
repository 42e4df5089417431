// @title           BOI PARA Bookstore API
// @version         1.0
// @description     Multi-role bookstore: catalog, orders, returns, buyback, notifications and search.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/infrastructure/config"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/pkg/logger"
	"github.com/boipara/bookstore/pkg/metrics"
	"github.com/boipara/bookstore/pkg/tracing"
)

const serviceName = "boipara-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: serviceName,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
	zlog.Info("server stopped")
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName: serviceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    true,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				zlog.Warn("tracer shutdown", zap.Error(err))
			}
		}()
		zlog.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}
	if cfg.Metrics.Enabled {
		metrics.InitMetrics(prometheus.DefaultRegisterer)
	}
	if err := dto.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	app, cleanup, err := buildApp(ctx, cfg, zlog)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer cleanup()

	if cfg.Admin.Password != "" {
		admin, err := app.Users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		zlog.Info("admin account ready", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
	} else {
		zlog.Warn("admin.password not set, no admin account seeded")
	}

	workers := make(chan error, 1)
	go func() { workers <- app.Run(ctx) }()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	workersDone := false
	select {
	case <-ctx.Done():
		zlog.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case err := <-workers:
		if err != nil {
			return err
		}
		workersDone = true
	}
	stop()

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if workersDone {
		return nil
	}
	// Workers stop on ctx cancellation; the dispatcher finishes its current batch.
	select {
	case err := <-workers:
		return err
	case <-sctx.Done():
		zlog.Warn("background workers did not stop in time")
		return nil
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/app"
	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/observability"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	format := cfg.LogFormat
	if format == "" {
		format = logging.FormatJSON
	}
	logger := logging.New(format, cfg.LogLevel, os.Stdout).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = serve(ctx, cfg, logger)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// serve runs the table API until ctx ends or the listener fails.
func serve(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	rt, err := observability.Start(cfg, "api", logger)
	if err != nil {
		logger.Error("start observability", "error", err)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.Shutdown(shutdownCtx); err != nil {
			logger.Warn("observability shutdown failed", "error", err)
		}
	}()

	pipeline, err := app.NewPipeline(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		return err
	}
	defer func() { _ = pipeline.Close() }()

	srv, err := app.NewHTTPServer(cfg, pipeline, logger)
	if err != nil {
		logger.Error("build http server", "error", err)
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "debug_addr", rt.DebugAddr())
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("http server stopped")
	return nil
}

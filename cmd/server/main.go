package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/skylandly/internal/api"
	"github.com/mcoot/skylandly/internal/config"
	"github.com/mcoot/skylandly/internal/factory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run serves until ctx is done and returns the process exit code.
// Every path out of run releases the application's storage.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("SKYLANDLY_CONFIG"), "Path to a YAML config file (optional)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return 1
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	// Create application factory
	app, err := factory.New(ctx, factory.FromConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Metrics:        app.Metrics,
		MetricsEnabled: cfg.Metrics.Enabled,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		GameController: app.GameController,
		Ledger:         app.Ledger,
		History:        app.History,
	})

	// Bind before announcing so a port clash fails fast
	server := api.NewServer(router, cfg.Server, logger)
	if err := server.Listen(); err != nil {
		logger.Error("failed to start server", slog.String("error", err.Error()))
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

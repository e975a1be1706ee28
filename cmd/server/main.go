package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/scribe/api"
	dbfs "github.com/garnizeh/scribe/db"
	"github.com/garnizeh/scribe/internal/config"
	"github.com/garnizeh/scribe/internal/content"
	"github.com/garnizeh/scribe/internal/db"
	"github.com/garnizeh/scribe/pkg/webhook"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	webhook.SetLogger(logger)

	logger.Info("starting scribe server",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("env", cfg.Env),
		slog.String("database_driver", cfg.DatabaseDriver),
	)

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, db.Driver(cfg.DatabaseDriver), cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("error closing DB", slog.Any("err", err))
		}
	}()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			return err
		}
		v, err := db.Version(ctx, database, dbfs.Migrations)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", slog.Int64("version", v))
	}

	// nil leaves job notifications disabled
	var dispatcher content.Dispatcher
	if cfg.Webhook.Enabled() {
		wh, err := webhook.NewDefaultClient(cfg.Webhook)
		if err != nil {
			return err
		}
		defer wh.Close()
		dispatcher = wh
	} else {
		logger.Warn("webhook.url not set; job notifications disabled")
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, database, dispatcher)
	if err != nil {
		return err
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout + cfg.Webhook.Timeout,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}

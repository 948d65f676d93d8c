package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/preston-bernstein/sports-hub-service/internal/config"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	// Environment already set by the process wins over .env.
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})
	reportEnvFile(logger, envErr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}

func reportEnvFile(logger *slog.Logger, err error) {
	switch {
	case err == nil:
		logger.Info("loaded .env file")
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("no .env file found, using process environment")
	default:
		logger.Warn("failed to load .env file", slog.Any("error", err))
	}
}

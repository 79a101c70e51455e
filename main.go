package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clts "poolwatch/clients"
	"poolwatch/config"
	"poolwatch/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load config from environment variables
	cfg := config.Load()
	logger.Info("starting poolwatch",
		zap.Bool("isProd", cfg.IsProd),
		zap.Int("monitors", len(cfg.Monitors)),
	)

	if len(cfg.Monitors) == 0 {
		logger.Fatal("no monitors configured, set MONITORS or POOL_ADDRESS")
	}

	logger.Info("instantiating clients")
	clients := clts.NewClients(logger, cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	runner := app.NewRunner(clients, cfg)
	if err := runner.Run(ctx); err != nil {
		logger.Fatal("runner failed", zap.Error(err))
	}
}

// Command seed runs a single demo data population pass against the catalog
// database and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Benitta1729/Product-application/internal/app"
	"github.com/Benitta1729/Product-application/internal/config"
	"github.com/Benitta1729/Product-application/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(config.ServiceName+"-seed", cfg.LogLevel)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := application.Seed(ctx)
	if err != nil {
		log.Error("seeding interrupted", slog.String("error", err.Error()))
	}
	log.Info("seeding finished",
		slog.Int("created", stats.Created),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)

	if shutdownErr := application.Shutdown(); shutdownErr != nil || err != nil {
		os.Exit(1)
	}
}

// Command cleanup removes activity log records older than the configured
// retention period. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// With -dry-run the command only counts the rows that would be removed.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/activity"
	"github.com/scknurr/tritium-v4-sub001/internal/app"
	"github.com/scknurr/tritium-v4-sub001/internal/config"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "count expired rows without deleting them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := run(cfg, *dryRun); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, dryRun bool) error {
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return err
	}
	defer pool.Close()

	repo := activity.New(pool)
	threshold := time.Now().AddDate(0, 0, -cfg.Retention.ActivityDays)

	if dryRun {
		expired, err := repo.CountOlderThan(ctx, threshold)
		if err != nil {
			logger.Error("activity cleanup count failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("activity cleanup dry run",
			slog.Int64("expired", expired),
			slog.Time("threshold", threshold),
		)
		return nil
	}

	deleted, err := repo.DeleteOlderThan(ctx, threshold)
	if err != nil {
		logger.Error("activity cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		return err
	}

	logger.Info("activity cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
	return nil
}

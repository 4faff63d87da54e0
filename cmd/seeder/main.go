// Command seeder loads demo fixture data into the database: profiles,
// skills, customers and the skill applications connecting them.
// Applications are created through the regular write path, so the activity
// log and the timeline include them. It is intended to be run offline, not
// as part of the main server.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	--dry-run        parse the fixture without writing to DB
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/activity"
	apprepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/application"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/customer"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/skill"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/user"
	"github.com/scknurr/tritium-v4-sub001/internal/app"
	"github.com/scknurr/tritium-v4-sub001/internal/app/seeder"
	"github.com/scknurr/tritium-v4-sub001/internal/config"
	applicationsvc "github.com/scknurr/tritium-v4-sub001/internal/service/application"
)

// Compile-time interface assertions.
var (
	_ seeder.DB                 = (*pgxpool.Pool)(nil)
	_ seeder.ApplicationApplier = (*applicationsvc.Service)(nil)
)

func main() {
	phaseFlag := flag.String("phase", "", "phases to run, comma-separated; empty runs all")
	dryRunFlag := flag.Bool("dry-run", false, "parse the fixture without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}

	if err := run(logger, appCfg, seederCfg, splitPhases(*phaseFlag)); err != nil {
		os.Exit(1)
	}
}

// splitPhases turns "users, skills" into {"users", "skills"}; an empty or
// blank value means all phases.
func splitPhases(s string) []string {
	var phases []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			phases = append(phases, p)
		}
	}
	return phases
}

func run(logger *slog.Logger, appCfg *config.Config, seederCfg *seeder.Config, phases []string) error {
	fixture, err := seeder.LoadFixture(seederCfg.FixturePath)
	if err != nil {
		logger.Error("load fixture", slog.String("error", err.Error()))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return err
	}
	defer pool.Close()

	// Applications go through the real service so every seeded relationship
	// lands in the activity log too.
	appSvc := applicationsvc.NewService(
		logger,
		apprepo.New(pool),
		user.New(pool),
		skill.New(pool),
		customer.New(pool),
		activity.New(pool),
		postgres.NewTxManager(pool),
	)

	pipeline := seeder.NewPipeline(logger, pool, appSvc, *seederCfg, fixture)
	if err := pipeline.Run(ctx, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		return err
	}
	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		return errSeedIncomplete
	}

	logger.Info("pipeline completed successfully")
	return nil
}

var errSeedIncomplete = errors.New("seed completed with row-level errors")

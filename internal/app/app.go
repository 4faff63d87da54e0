package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	activityrepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/activity"
	applicationrepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/application"
	customerrepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/customer"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/notify"
	skillrepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/skill"
	userrepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/user"
	"github.com/scknurr/tritium-v4-sub001/internal/auth"
	"github.com/scknurr/tritium-v4-sub001/internal/config"
	applicationsvc "github.com/scknurr/tritium-v4-sub001/internal/service/application"
	authsvc "github.com/scknurr/tritium-v4-sub001/internal/service/auth"
	"github.com/scknurr/tritium-v4-sub001/internal/service/timeline"
	"github.com/scknurr/tritium-v4-sub001/internal/transport/middleware"
	"github.com/scknurr/tritium-v4-sub001/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, services and the HTTP transport, and
// blocks until ctx is cancelled (SIGINT/SIGTERM) or the server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	activityRepo := activityrepo.New(pool)
	userRepo := userrepo.New(pool)
	customerRepo := customerrepo.New(pool)
	skillRepo := skillrepo.New(pool)
	appRepo := applicationrepo.New(pool)

	listener := notify.NewListener(pool, cfg.Timeline.NotifyChannel, logger)
	listenCtx, stopListener := context.WithCancel(ctx)
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		listener.Run(listenCtx)
	}()
	// Runs before the deferred pool.Close; the listener must release its
	// connection or Close blocks.
	defer func() {
		stopListener()
		<-listenerDone
	}()

	tokenManager := auth.NewTokenManager(cfg.Auth)

	timelineSvc := timeline.NewService(
		logger,
		timeline.Config{
			DefaultLimit:    cfg.Timeline.DefaultLimit,
			MaxLimit:        cfg.Timeline.MaxLimit,
			WatchBuffer:     cfg.Timeline.WatchBuffer,
			AssembleTimeout: cfg.Timeline.AssembleTimeout,
		},
		activityRepo,
		appRepo,
		userRepo,
		customerRepo,
		skillRepo,
		listener,
	)
	appSvc := applicationsvc.NewService(logger, appRepo, userRepo, skillRepo, customerRepo, activityRepo, txManager)
	authService := authsvc.NewService(logger, userRepo, tokenManager)

	loginLimiter := middleware.NewRateLimiter(time.Minute)
	defer loginLimiter.Stop()

	router := rest.NewRouter(rest.Deps{
		Timeline:       timelineSvc,
		Applications:   appSvc,
		Auth:           authService,
		DB:             pool,
		TokenParser:    tokenManager,
		Logger:         logger,
		CORS:           cfg.CORS,
		KeepAlive:      cfg.Timeline.KeepAlive,
		Version:        BuildVersion(),
		LoginLimiter:   loginLimiter,
		LoginRateLimit: cfg.Server.LoginRateLimit,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	logger.Info("shutdown complete")
	return nil
}

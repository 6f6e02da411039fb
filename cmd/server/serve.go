package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maxviazov/football-stats-service/internal/config"
	"github.com/maxviazov/football-stats-service/internal/handler"
	"github.com/maxviazov/football-stats-service/internal/logger"
	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/maxviazov/football-stats-service/internal/repository/postgres"
	"github.com/maxviazov/football-stats-service/internal/service"
	"github.com/maxviazov/football-stats-service/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	appLogger.Info().Msg("✅ Logger initialized successfully")

	db, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer db.Close()

	pool := db.Pool()
	accounts := postgres.NewAccountRepository(pool)
	players := postgres.NewPlayerRepository(pool)
	games := postgres.NewGameRepository(pool)
	stats := postgres.NewStatsRepository(pool)
	tx := postgres.NewTxManager(pool)

	m := metrics.NewService()
	photos := storage.NewDiskRemover(cfg.App.PhotoDir)

	if cfg.App.Env == "prod" || cfg.App.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(appLogger))
	handler.Register(r, handler.Deps{
		Pinger:   postgres.NewPinger(pool),
		Games:    service.NewGameService(games, stats, tx, m, appLogger),
		Stats:    service.NewStatsService(stats, players, games, tx, m, appLogger),
		Players:  service.NewPlayerService(players, stats, tx, photos, m, appLogger),
		Accounts: service.NewAccountService(accounts, players, stats, tx, photos, m, appLogger),
		Metrics:  metrics.NewMetricsHandler(),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	appLogger.Info().Msg("server stopped")
	return nil
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "account-pool-system.com/account-pool-system/internal/configs"
	"account-pool-system.com/account-pool-system/internal/constants"
	"account-pool-system.com/account-pool-system/internal/generator"
	httpapi "account-pool-system.com/account-pool-system/internal/http"
	"account-pool-system.com/account-pool-system/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the account pool HTTP API backed by the configured store and ready queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		readyQueue, closeQueue, err := openQueue(cfg)
		if err != nil {
			return err
		}
		defer closeQueue()

		// Pending rows from a previous process were only ever held in its
		// in-memory queue, so nothing can hand them out any more.
		if cfg.QueueBackend == config.QueueMemory && cfg.ReleasePendingOnStart {
			n, err := store.ReleasePending(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("released pending accounts from previous run", zap.Int64("count", n))
			}
		}

		gen := generator.NewAccountNumberGenerator(cfg.AccountPrefix, generator.NewSequence())
		accountService := services.NewAccountService(
			store,
			readyQueue,
			gen,
			cfg.BatchSize,
			constants.ReplenishStrategy(cfg.ReplenishStrategy),
			logger.Named("pool"),
		)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		handler := httpapi.NewHandler(accountService, cfg.AccountPrefix, logger.Named("http"))
		httpapi.Register(e, handler, cfg.RateLimit, logger.Named("http"))

		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.AppURL()))
			if err := e.Start(cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown timed out", zap.Error(err))
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

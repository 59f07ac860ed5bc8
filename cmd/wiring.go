package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	config "account-pool-system.com/account-pool-system/internal/configs"
	"account-pool-system.com/account-pool-system/internal/queue"
	repository "account-pool-system.com/account-pool-system/internal/repositories"
	"account-pool-system.com/account-pool-system/internal/services"
)

// accountStore is what the commands need from a store beyond the pool
// contract.
type accountStore interface {
	services.AccountStore
	ReleasePending(ctx context.Context) (int64, error)
}

func loadConfig() (config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	return cfg, logger, nil
}

// openStore returns the configured store and a func releasing its resources.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (accountStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := config.NewPostgresPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPgAccountRepository(pool)
		if err := repo.Setup(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	default:
		db, err := config.NewDatabaseClient(cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewAccountRepository(db), closeDB, nil
	}
}

func openQueue(cfg config.Config) (queue.ReadyQueue, func(), error) {
	if cfg.QueueBackend != config.QueueRedis {
		return queue.NewMemoryReadyQueue(), func() {}, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("open ready queue: %w", err)
	}
	return queue.NewRedisReadyQueue(client, cfg.RedisQueueKey), client.Close, nil
}

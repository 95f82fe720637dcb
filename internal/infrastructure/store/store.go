// Package store opens the task repository selected by STORE_DRIVER.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	boltInfra "github.com/fastygo/todo/internal/infrastructure/bolt"
	mongoInfra "github.com/fastygo/todo/internal/infrastructure/mongo"
	pgInfra "github.com/fastygo/todo/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/todo/internal/infrastructure/redis"
	"github.com/fastygo/todo/repository"
	boltRepo "github.com/fastygo/todo/repository/bolt"
	"github.com/fastygo/todo/repository/memory"
	mongoRepo "github.com/fastygo/todo/repository/mongo"
	pgRepo "github.com/fastygo/todo/repository/postgres"
	redisRepo "github.com/fastygo/todo/repository/redis"
)

// Backend bundles an opened repository with its health probe and teardown.
type Backend struct {
	Driver string
	Tasks  repository.TaskRepository
	Pinger repository.Pinger
	close  func(ctx context.Context) error
}

// Close releases the driver's connections.
func (b *Backend) Close(ctx context.Context) error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects to the configured driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if cfg == nil {
		return nil, errors.New("store: nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	backend := &Backend{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongoInfra.NewClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		backend.Tasks = mongoRepo.NewTaskRepository(mongoInfra.Collection(client, cfg.Mongo))
		backend.close = client.Disconnect

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		backend.Tasks = pgRepo.NewTaskRepository(pool)
		backend.close = func(context.Context) error {
			pool.Close()
			return nil
		}

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		backend.Tasks = redisRepo.NewTaskRepository(client, cfg.Redis.KeyPrefix)
		backend.close = func(context.Context) error {
			return client.Close()
		}

	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Bolt.Path, cfg.Bolt.Bucket, logger)
		if err != nil {
			return nil, fmt.Errorf("bolt: %w", err)
		}
		backend.Tasks = boltRepo.NewTaskRepository(db, cfg.Bolt.Bucket)
		backend.close = func(context.Context) error {
			return boltInfra.Close(db, logger)
		}

	case config.DriverMemory:
		logger.Warn("using in-memory store, tasks are lost on restart")
		backend.Tasks = memory.NewTaskRepository()

	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Store.Driver)
	}

	if pinger, ok := backend.Tasks.(repository.Pinger); ok {
		backend.Pinger = pinger
	}
	return backend, nil
}

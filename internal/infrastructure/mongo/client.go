package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
)

// NewClient connects to MongoDB and performs a health check.
func NewClient(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("connected to mongo", zap.String("db", cfg.Database), zap.String("collection", cfg.Collection))
	return client, nil
}

// Collection returns the task collection configured for the service.
func Collection(client *mongo.Client, cfg config.MongoConfig) *mongo.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}

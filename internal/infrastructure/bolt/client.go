package bolt

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// DefaultBucket holds the task documents.
const DefaultBucket = "todos"

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string, logger *zap.Logger) (*bolt.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened bolt store", zap.String("path", path), zap.String("bucket", bucket))
	return db, nil
}

// Close closes the Bolt database and logs the result.
func Close(db *bolt.DB, logger *zap.Logger) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("bolt store closed")
	}
	return nil
}

package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type taskRepository struct {
	db     *bolt.DB
	bucket []byte
}

// NewTaskRepository returns a BoltDB-backed TaskRepository. The bucket must
// already exist. Keys are UUIDv7 ids, so cursor order is creation order.
func NewTaskRepository(db *bolt.DB, bucket string) repository.TaskRepository {
	return &taskRepository{db: db, bucket: []byte(bucket)}
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError(err)
	}

	tasks := make([]domain.Task, 0)
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(k, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError(err)
	}

	var task *domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		found, err := r.get(tx, id)
		task = found
		return err
	})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, domain.StoreError(err)
	}
	created := *task
	created.ID = id.String()
	created.CreatedAt = time.Now().UTC()

	if err := r.db.Update(func(tx *bolt.Tx) error {
		return r.put(tx, &created)
	}); err != nil {
		return nil, domain.StoreError(err)
	}
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError(err)
	}

	var task *domain.Task
	err := r.db.Update(func(tx *bolt.Tx) error {
		found, err := r.get(tx, id)
		if err != nil {
			return err
		}
		patch.Apply(found)
		task = found
		return r.put(tx, found)
	})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError(err)
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Delete([]byte(id))
	})
	return domain.StoreError(err)
}

// Ping verifies the database file is still open and readable.
func (r *taskRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

func (r *taskRepository) get(tx *bolt.Tx, id string) (*domain.Task, error) {
	payload := tx.Bucket(r.bucket).Get([]byte(id))
	if payload == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) put(tx *bolt.Tx, task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return tx.Bucket(r.bucket).Put([]byte(task.ID), payload)
}

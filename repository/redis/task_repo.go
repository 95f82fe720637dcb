package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

const maxUpdateAttempts = 5

type taskRepository struct {
	client *redislib.Client
	prefix string
	index  string
}

// NewTaskRepository creates a Redis-backed task repository. Each task is a
// JSON document under "<prefix>todo:<id>"; a sorted set scored by creation
// time lists them.
func NewTaskRepository(client *redislib.Client, prefix string) repository.TaskRepository {
	return &taskRepository{
		client: client,
		prefix: prefix + "todo:",
		index:  prefix + "todos",
	}
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	ids, err := r.client.ZRange(ctx, r.index, 0, -1).Result()
	if err != nil {
		return nil, domain.StoreError(err)
	}
	tasks := make([]domain.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.StoreError(err)
	}

	for _, value := range values {
		payload, ok := value.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		var task domain.Task
		if err := json.Unmarshal([]byte(payload), &task); err != nil {
			return nil, domain.StoreError(err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	result, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, domain.StoreError(err)
	}

	var task domain.Task
	if err := json.Unmarshal([]byte(result), &task); err != nil {
		return nil, domain.StoreError(err)
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, domain.StoreError(err)
	}
	created := *task
	created.ID = id.String()
	created.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(created)
	if err != nil {
		return nil, domain.StoreError(err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, r.key(created.ID), payload, 0)
		pipe.ZAdd(ctx, r.index, redislib.Z{
			Score:  float64(created.CreatedAt.UnixNano()),
			Member: created.ID,
		})
		return nil
	})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	key := r.key(id)
	var updated domain.Task

	txf := func(tx *redislib.Tx) error {
		result, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redislib.Nil) {
				return domain.ErrTaskNotFound
			}
			return err
		}
		if err := json.Unmarshal([]byte(result), &updated); err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		patch.Apply(&updated)
		payload, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	// The WATCH only guards the read-modify-write of this one document;
	// a concurrent writer still wins if it commits first.
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redislib.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, domain.StoreError(err)
		}
		return &updated, nil
	}
	return nil, domain.StoreError(fmt.Errorf("update %s: too much contention", id))
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	var removed *redislib.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		removed = pipe.Del(ctx, r.key(id))
		pipe.ZRem(ctx, r.index, id)
		return nil
	})
	if err != nil {
		return domain.StoreError(err)
	}
	if removed.Val() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *taskRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

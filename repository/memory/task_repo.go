// Package memory keeps tasks in process memory. It is meant for local
// development and tests; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type taskRepository struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]domain.Task
}

// NewTaskRepository returns an empty in-memory TaskRepository.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{tasks: make(map[string]domain.Task)}
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id])
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := *task
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now().UTC()
	r.tasks[created.ID] = created
	r.order = append(r.order, created.ID)
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	patch.Apply(&task)
	r.tasks[id] = task
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

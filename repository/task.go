package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

// TaskRepository is the document store holding the task collection.
// Implementations return domain.ErrTaskNotFound for unknown ids and wrap
// driver failures with domain.StoreError.
type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// Create assigns ID and CreatedAt and persists the task.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update applies the patch atomically and returns the resulting document.
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

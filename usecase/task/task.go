package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/repository"
)

// UseCase enforces the task rules on top of a TaskRepository.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: log,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx)
	if err != nil {
		uc.log(ctx).Error("list tasks failed", zap.Error(err))
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// CreateTask validates text and stores a new pending task.
func (uc *UseCase) CreateTask(ctx context.Context, text string) (*domain.Task, error) {
	task, err := domain.NewTask(text)
	if err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		uc.log(ctx).Error("create task failed", zap.Error(err))
		return nil, err
	}
	uc.log(ctx).Debug("task created", zap.String("id", created.ID))
	return created, nil
}

// UpdateTask applies only the supplied fields of patch.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	normalized, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	updated, err := uc.tasks.Update(ctx, id, normalized)
	if err != nil {
		if !domain.IsNotFound(err) {
			uc.log(ctx).Error("update task failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	uc.log(ctx).Debug("task updated", zap.String("id", id))
	return updated, nil
}

// ToggleTask flips the completion flag of an existing task.
func (uc *UseCase) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.UpdateTask(ctx, id, domain.CompletedPatch(!current.Completed))
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if !domain.IsNotFound(err) {
			uc.log(ctx).Error("delete task failed", zap.String("id", id), zap.Error(err))
		}
		return err
	}
	uc.log(ctx).Debug("task deleted", zap.String("id", id))
	return nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return logger.WithRequestID(ctx, uc.logger)
}

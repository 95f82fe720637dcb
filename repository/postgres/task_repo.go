package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT id, task, completed, created_at
	FROM todos
	ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, domain.StoreError(err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError(err)
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, task, completed, created_at
	FROM todos
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	task, err := scanTask(row)
	return task, domain.StoreError(err)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, domain.StoreError(err)
	}

	const query = `
	INSERT INTO todos (id, task, completed)
	VALUES ($1, $2, $3)
	RETURNING id, task, completed, created_at
	`
	row := r.pool.QueryRow(ctx, query, id.String(), task.Task, task.Completed)
	created, err := scanTask(row)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	// A single statement keeps the patch atomic per row.
	const query = `
	UPDATE todos
	SET task = COALESCE($2, task),
		completed = COALESCE($3, completed)
	WHERE id = $1
	RETURNING id, task, completed, created_at
	`
	row := r.pool.QueryRow(ctx, query, id, patch.Task, patch.Completed)
	task, err := scanTask(row)
	return task, domain.StoreError(err)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM todos WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return domain.StoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Task,
		&task.Completed,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task.CreatedAt = task.CreatedAt.UTC()
	return &task, nil
}

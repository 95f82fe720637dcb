package console

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastygo/todo/domain"
)

// TaskAPI is the subset of the API client the console drives.
type TaskAPI interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, text string) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Toggle(ctx context.Context, task domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type (
	tasksLoadedMsg struct {
		tasks []domain.Task
		err   error
	}
	taskCreatedMsg struct {
		task *domain.Task
		err  error
	}
	taskSavedMsg struct {
		id   string
		task *domain.Task
		err  error
	}
	taskToggledMsg struct {
		task *domain.Task
		err  error
	}
	taskDeletedMsg struct {
		id  string
		err error
	}
	toastExpiredMsg struct {
		id int
	}
)

func (m Model) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		tasks, err := m.api.List(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) createTask(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		task, err := m.api.Create(ctx, text)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m Model) saveTask(id, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		task, err := m.api.Update(ctx, id, domain.TextPatch(text))
		return taskSavedMsg{id: id, task: task, err: err}
	}
}

func (m Model) toggleTask(task domain.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		updated, err := m.api.Toggle(ctx, task)
		return taskToggledMsg{task: updated, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		return taskDeletedMsg{id: id, err: m.api.Delete(ctx, id)}
	}
}

func expireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

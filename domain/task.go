package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTaskLength is the upper bound, in characters, of a trimmed task text.
const MaxTaskLength = 100

// Task represents a single to-do item.
type Task struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTask builds a pending task from raw user input.
func NewTask(text string) (*Task, error) {
	normalized, err := NormalizeText(text)
	if err != nil {
		return nil, err
	}
	return &Task{Task: normalized, Completed: false}, nil
}

// NormalizeText trims the text and checks it against the task constraints.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrTaskRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxTaskLength {
		return "", ErrTaskTooLong
	}
	return trimmed, nil
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Task == nil && p.Completed == nil
}

// Normalize trims and validates the supplied text, if any.
func (p TaskPatch) Normalize() (TaskPatch, error) {
	if p.Task == nil {
		return p, nil
	}
	normalized, err := NormalizeText(*p.Task)
	if err != nil {
		return p, err
	}
	p.Task = &normalized
	return p, nil
}

// Apply copies the supplied fields onto task.
func (p TaskPatch) Apply(task *Task) {
	if task == nil {
		return
	}
	if p.Task != nil {
		task.Task = *p.Task
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
}

// CompletedPatch returns a patch that only sets the completion flag.
func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}

// TextPatch returns a patch that only replaces the text.
func TextPatch(text string) TaskPatch {
	return TaskPatch{Task: &text}
}

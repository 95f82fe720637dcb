package transport

import "github.com/fastygo/todo/domain"

// CreateTaskRequest is the body of POST /todos.
type CreateTaskRequest struct {
	Task string `json:"task"`
}

// UpdateTaskRequest is the body of PATCH /todos/{id}. Absent and null
// fields both decode to nil and are left untouched.
type UpdateTaskRequest struct {
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}

// Patch converts the request into a domain patch.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{Task: r.Task, Completed: r.Completed}
}

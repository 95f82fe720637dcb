package console

import "github.com/fastygo/todo/domain"

// State is the console's view of the task collection. It is changed only
// after the API confirms an operation and is never re-fetched after startup.
type State struct {
	tasks      []domain.Task
	editingID  string
	editBuffer string
}

func NewState() *State {
	return &State{tasks: []domain.Task{}}
}

// Load replaces the collection with the startup listing.
func (s *State) Load(tasks []domain.Task) {
	s.tasks = append(make([]domain.Task, 0, len(tasks)), tasks...)
	s.CancelEdit()
}

// Tasks returns a copy of the tasks in display order.
func (s *State) Tasks() []domain.Task {
	return append([]domain.Task(nil), s.tasks...)
}

func (s *State) Len() int { return len(s.tasks) }

func (s *State) At(i int) (domain.Task, bool) {
	if i < 0 || i >= len(s.tasks) {
		return domain.Task{}, false
	}
	return s.tasks[i], true
}

func (s *State) Find(id string) (domain.Task, int, bool) {
	for i, task := range s.tasks {
		if task.ID == id {
			return task, i, true
		}
	}
	return domain.Task{}, -1, false
}

// Append adds a task the server has just created.
func (s *State) Append(task domain.Task) {
	s.tasks = append(s.tasks, task)
}

// Replace swaps in the server's copy of an updated task, keeping its position.
func (s *State) Replace(task domain.Task) bool {
	_, i, ok := s.Find(task.ID)
	if !ok {
		return false
	}
	s.tasks[i] = task
	return true
}

// Remove drops a deleted task. Editing it ends the edit.
func (s *State) Remove(id string) bool {
	_, i, ok := s.Find(id)
	if !ok {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.editingID == id {
		s.CancelEdit()
	}
	return true
}

// StartEdit makes id the only task being edited and seeds the buffer with its text.
func (s *State) StartEdit(id string) bool {
	task, _, ok := s.Find(id)
	if !ok {
		return false
	}
	s.editingID = task.ID
	s.editBuffer = task.Task
	return true
}

func (s *State) SetEditBuffer(text string) {
	if s.editingID != "" {
		s.editBuffer = text
	}
}

// CancelEdit leaves editing mode without touching any task.
func (s *State) CancelEdit() {
	s.editingID = ""
	s.editBuffer = ""
}

func (s *State) Editing() (string, bool) {
	return s.editingID, s.editingID != ""
}

func (s *State) EditBuffer() string { return s.editBuffer }

func (s *State) Stats() (done, pending int) {
	for _, task := range s.tasks {
		if task.Completed {
			done++
		} else {
			pending++
		}
	}
	return done, pending
}

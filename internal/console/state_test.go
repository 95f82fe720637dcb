package console

import (
	"testing"

	"github.com/fastygo/todo/domain"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", Task: "buy milk"},
		{ID: "2", Task: "walk dog", Completed: true},
		{ID: "3", Task: "write report"},
	}
}

func TestStateMutations(t *testing.T) {
	s := NewState()
	s.Load(sampleTasks())

	s.Append(domain.Task{ID: "4", Task: "call mom"})
	if s.Len() != 4 {
		t.Fatalf("len = %d", s.Len())
	}
	if last, _ := s.At(3); last.ID != "4" {
		t.Errorf("append should add at the end, got %+v", last)
	}

	if !s.Replace(domain.Task{ID: "1", Task: "buy milk", Completed: true}) {
		t.Fatal("replace existing task failed")
	}
	if first, _ := s.At(0); !first.Completed {
		t.Errorf("replace should keep position and update fields, got %+v", first)
	}
	if s.Replace(domain.Task{ID: "nope"}) {
		t.Error("replace of unknown id should report false")
	}

	if !s.Remove("2") {
		t.Fatal("remove existing task failed")
	}
	if _, _, ok := s.Find("2"); ok {
		t.Error("removed task still present")
	}
	if s.Remove("2") {
		t.Error("second remove should report false")
	}

	done, pending := s.Stats()
	if done != 1 || pending != 2 {
		t.Errorf("stats = %d done, %d pending", done, pending)
	}
}

func TestStateTasksIsACopy(t *testing.T) {
	s := NewState()
	s.Load(sampleTasks())

	tasks := s.Tasks()
	tasks[0].Task = "changed"
	if first, _ := s.At(0); first.Task != "buy milk" {
		t.Errorf("state mutated through returned slice: %+v", first)
	}
}

func TestStateEditing(t *testing.T) {
	s := NewState()
	s.Load(sampleTasks())

	if s.StartEdit("missing") {
		t.Fatal("cannot edit an unknown task")
	}
	if !s.StartEdit("1") {
		t.Fatal("start edit failed")
	}
	if id, ok := s.Editing(); !ok || id != "1" || s.EditBuffer() != "buy milk" {
		t.Fatalf("editing = %q %v buffer %q", id, ok, s.EditBuffer())
	}

	// a second StartEdit moves the single edit target
	s.StartEdit("3")
	s.SetEditBuffer("write the report")
	if id, _ := s.Editing(); id != "3" || s.EditBuffer() != "write the report" {
		t.Fatalf("editing = %q buffer %q", id, s.EditBuffer())
	}

	s.CancelEdit()
	if _, ok := s.Editing(); ok {
		t.Fatal("cancel should leave editing mode")
	}
	if task, _, _ := s.Find("3"); task.Task != "write report" {
		t.Errorf("cancel must not change the task, got %+v", task)
	}

	s.SetEditBuffer("ignored")
	if s.EditBuffer() != "" {
		t.Errorf("buffer set outside editing mode: %q", s.EditBuffer())
	}

	s.StartEdit("1")
	s.Remove("1")
	if _, ok := s.Editing(); ok {
		t.Error("removing the edited task should end editing")
	}
}

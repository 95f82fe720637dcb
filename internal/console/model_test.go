package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastygo/todo/domain"
)

type fakeAPI struct {
	tasks  []domain.Task
	fail   error
	calls  []string
	nextID int
}

func (f *fakeAPI) List(ctx context.Context) ([]domain.Task, error) {
	f.calls = append(f.calls, "list")
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) Create(ctx context.Context, text string) (*domain.Task, error) {
	f.calls = append(f.calls, "create:"+text)
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	task := domain.Task{ID: "new-" + string(rune('0'+f.nextID)), Task: text, CreatedAt: time.Now()}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeAPI) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	f.calls = append(f.calls, "update:"+id)
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			patch.Apply(&f.tasks[i])
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) Toggle(ctx context.Context, task domain.Task) (*domain.Task, error) {
	return f.Update(ctx, task.ID, domain.CompletedPatch(!task.Completed))
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.fail
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

// send delivers msg and, when the model answers with an API command, runs it
// and feeds the result back.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := update(t, m, msg)
	if cmd == nil {
		return m
	}
	switch result := cmd().(type) {
	case tasksLoadedMsg, taskCreatedMsg, taskSavedMsg, taskToggledMsg, taskDeletedMsg:
		m, _ = update(t, m, result)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, press(string(r)))
	}
	return m
}

func loaded(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := NewModel(api, Options{})
	m, _ = update(t, m, m.Init()())
	return m
}

func lastToast(m Model) string {
	toasts := m.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	return toasts[len(toasts)-1]
}

func TestModelLoadsOnce(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)

	if m.State().Len() != 3 {
		t.Fatalf("loaded %d tasks", m.State().Len())
	}
	if !strings.Contains(m.View(), "buy milk") {
		t.Errorf("view does not render tasks:\n%s", m.View())
	}
}

func TestModelLoadFailure(t *testing.T) {
	api := &fakeAPI{fail: errors.New("connection refused")}
	m := loaded(t, api)

	if m.State().Len() != 0 {
		t.Errorf("state should stay empty")
	}
	if lastToast(m) != msgFetchFailed {
		t.Errorf("toast = %q", lastToast(m))
	}
}

func TestModelAddTask(t *testing.T) {
	api := &fakeAPI{}
	m := loaded(t, api)

	m, _ = update(t, m, press("a"))
	m = typeText(t, m, "buy milk")
	m = send(t, m, press("enter"))

	tasks := m.State().Tasks()
	if len(tasks) != 1 || tasks[0].Task != "buy milk" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if lastToast(m) != msgAdded {
		t.Errorf("toast = %q", lastToast(m))
	}
	if m.mode != modeBrowse {
		t.Errorf("add bar should close after success")
	}
	if got := strings.Join(api.calls, ","); got != "list,create:buy milk" {
		t.Errorf("calls = %s", got)
	}
}

func TestModelAddIgnoresBlankInput(t *testing.T) {
	api := &fakeAPI{}
	m := loaded(t, api)

	m, _ = update(t, m, press("a"))
	m = typeText(t, m, "   ")
	_, cmd := update(t, m, press("enter"))
	if cmd != nil {
		t.Fatal("blank input must not issue a request")
	}
}

func TestModelAddFailureKeepsState(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)
	api.fail = errors.New("503")

	m, _ = update(t, m, press("a"))
	m = typeText(t, m, "buy milk")
	m = send(t, m, press("enter"))

	if m.State().Len() != 3 {
		t.Errorf("failed create changed state: %+v", m.State().Tasks())
	}
	if lastToast(m) != msgAddFailed {
		t.Errorf("toast = %q", lastToast(m))
	}
	if m.mode != modeAdd || m.input.Value() != "buy milk" {
		t.Errorf("input should be kept for another attempt")
	}
}

func TestModelToggle(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)

	m = send(t, m, press(" "))
	first, _ := m.State().At(0)
	if !first.Completed {
		t.Fatalf("toggle did not complete task: %+v", first)
	}
	if lastToast(m) != msgCompleted {
		t.Errorf("toast = %q", lastToast(m))
	}
	if _, editing := m.State().Editing(); editing {
		t.Error("toggle must not enter editing mode")
	}

	m = send(t, m, press(" "))
	first, _ = m.State().At(0)
	if first.Completed || lastToast(m) != msgIncomplete {
		t.Errorf("second toggle: %+v toast %q", first, lastToast(m))
	}
}

func TestModelToggleFailure(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)
	api.fail = errors.New("timeout")

	m = send(t, m, press(" "))
	first, _ := m.State().At(0)
	if first.Completed {
		t.Error("failed toggle changed state")
	}
	if lastToast(m) != msgToggleFailed {
		t.Errorf("toast = %q", lastToast(m))
	}
}

func TestModelEditSaveAndCancel(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)

	m, _ = update(t, m, press("e"))
	if id, editing := m.State().Editing(); !editing || id != "1" {
		t.Fatalf("editing = %q %v", id, editing)
	}
	m = typeText(t, m, " today")
	if m.State().EditBuffer() != "buy milk today" {
		t.Fatalf("buffer = %q", m.State().EditBuffer())
	}

	m = send(t, m, press("esc"))
	if _, editing := m.State().Editing(); editing {
		t.Fatal("esc should cancel editing")
	}
	if first, _ := m.State().At(0); first.Task != "buy milk" {
		t.Errorf("cancel changed the task: %+v", first)
	}
	if strings.Contains(strings.Join(api.calls, ","), "update") {
		t.Errorf("cancel issued a request: %v", api.calls)
	}

	m, _ = update(t, m, press("e"))
	m = typeText(t, m, " today")
	m = send(t, m, press("enter"))
	if first, _ := m.State().At(0); first.Task != "buy milk today" {
		t.Errorf("save did not update the task: %+v", first)
	}
	if _, editing := m.State().Editing(); editing || m.mode != modeBrowse {
		t.Error("save should return to idle")
	}
	if lastToast(m) != msgUpdated {
		t.Errorf("toast = %q", lastToast(m))
	}
}

func TestModelEditFailureStaysEditing(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)

	m, _ = update(t, m, press("e"))
	api.fail = errors.New("400")
	m = send(t, m, press("enter"))

	if _, editing := m.State().Editing(); !editing || m.mode != modeEdit {
		t.Error("failed save should stay in editing mode")
	}
	if lastToast(m) != msgUpdateFailed {
		t.Errorf("toast = %q", lastToast(m))
	}
}

func TestModelDelete(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)

	m = send(t, m, press("d"))
	if _, _, ok := m.State().Find("1"); ok {
		t.Error("deleted task still in state")
	}
	if m.State().Len() != 2 || lastToast(m) != msgDeleted {
		t.Errorf("len %d toast %q", m.State().Len(), lastToast(m))
	}

	api.fail = errors.New("404")
	m = send(t, m, press("d"))
	if m.State().Len() != 2 || lastToast(m) != msgDeleteFailed {
		t.Errorf("failed delete: len %d toast %q", m.State().Len(), lastToast(m))
	}
}

func TestModelToastExpires(t *testing.T) {
	api := &fakeAPI{tasks: sampleTasks()}
	m := loaded(t, api)

	m, cmd := update(t, m, taskDeletedMsg{id: "2"})
	if len(m.Toasts()) != 1 || cmd == nil {
		t.Fatalf("expected one toast and a timer, got %v", m.Toasts())
	}
	m, _ = update(t, m, toastExpiredMsg{id: m.toasts[0].id})
	if len(m.Toasts()) != 0 {
		t.Errorf("toast not dismissed: %v", m.Toasts())
	}
}

func TestModelQuit(t *testing.T) {
	m := loaded(t, &fakeAPI{})
	_, cmd := update(t, m, press("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

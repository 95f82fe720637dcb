// Package console is the interactive terminal client for the todo API.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/fastygo/todo/domain"
)

const (
	msgAdded         = "Task added successfully!"
	msgUpdated       = "Task updated!"
	msgDeleted       = "Task deleted!"
	msgCompleted     = "Task completed!"
	msgIncomplete    = "Task marked incomplete!"
	msgAddFailed     = "Failed to add task."
	msgFetchFailed   = "Failed to fetch tasks."
	msgUpdateFailed  = "Failed to update task."
	msgDeleteFailed  = "Failed to delete task."
	msgToggleFailed  = "Failed to update task status."
	defaultWidth     = 80
	defaultHeight    = 24
	inputCharLimit   = domain.MaxTaskLength * 2
	inputBarHeight   = 4
	panelChromeLines = 2
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

type toast struct {
	id     int
	text   string
	failed bool
}

type Options struct {
	RequestTimeout time.Duration
	ToastDuration  time.Duration
	Logger         *log.Logger
}

// Model is the bubbletea program state. Every network call runs as a
// tea.Cmd and the task list changes only when its result message arrives.
type Model struct {
	api    TaskAPI
	state  *State
	list   list.Model
	input  textinput.Model
	mode   mode
	logger *log.Logger

	loading   bool
	toasts    []toast
	nextToast int

	timeout  time.Duration
	toastTTL time.Duration
	width    int
	height   int
}

type listItem struct {
	task domain.Task
}

func (i listItem) Title() string       { return i.task.Task }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Task }

type itemDelegate struct {
	state *State
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.task.Task
	if it.task.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if id, editing := d.state.Editing(); editing && id == it.task.ID {
		text = accentStyle.Render("✎ ") + text
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

func NewModel(api TaskAPI, opts Options) Model {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultTimeout
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = defaultToastTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	state := NewState()

	l := list.New(nil, itemDelegate{state: state}, defaultWidth, defaultHeight)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = inputCharLimit

	m := Model{
		api:      api,
		state:    state,
		list:     l,
		input:    ti,
		logger:   opts.Logger,
		loading:  true,
		timeout:  opts.RequestTimeout,
		toastTTL: opts.ToastDuration,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.list.Title = m.header()
	return m
}

// State exposes the confirmed task list.
func (m Model) State() *State { return m.state }

// Toasts returns the notifications currently on screen, oldest first.
func (m Model) Toasts() []string {
	out := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		out = append(out, t.text)
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return m.loadTasks()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("fetch tasks failed", "err", msg.err)
			cmd := m.notify(msgFetchFailed, true)
			return m, cmd
		}
		m.state.Load(msg.tasks)
		cmd := m.sync()
		return m, cmd

	case taskCreatedMsg:
		if msg.err != nil {
			m.logger.Error("add task failed", "err", msg.err)
			cmd := m.notify(msgAddFailed, true)
			return m, cmd
		}
		m.state.Append(*msg.task)
		if m.mode == modeAdd {
			m.leaveInput()
		}
		cmd := tea.Batch(m.sync(), m.notify(msgAdded, false))
		m.list.Select(m.state.Len() - 1)
		return m, cmd

	case taskSavedMsg:
		if msg.err != nil {
			m.logger.Error("update task failed", "id", msg.id, "err", msg.err)
			cmd := m.notify(msgUpdateFailed, true)
			return m, cmd
		}
		m.state.Replace(*msg.task)
		if id, editing := m.state.Editing(); editing && id == msg.id {
			m.state.CancelEdit()
			m.leaveInput()
		}
		cmd := tea.Batch(m.sync(), m.notify(msgUpdated, false))
		return m, cmd

	case taskToggledMsg:
		if msg.err != nil {
			m.logger.Error("toggle task failed", "err", msg.err)
			cmd := m.notify(msgToggleFailed, true)
			return m, cmd
		}
		m.state.Replace(*msg.task)
		text := msgIncomplete
		if msg.task.Completed {
			text = msgCompleted
		}
		cmd := tea.Batch(m.sync(), m.notify(text, false))
		return m, cmd

	case taskDeletedMsg:
		if msg.err != nil {
			m.logger.Error("delete task failed", "id", msg.id, "err", msg.err)
			cmd := m.notify(msgDeleteFailed, true)
			return m, cmd
		}
		m.state.Remove(msg.id)
		if _, editing := m.state.Editing(); m.mode == modeEdit && !editing {
			m.leaveInput()
		}
		cmd := tea.Batch(m.sync(), m.notify(msgDeleted, false))
		return m, cmd

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m, nil
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		m.input.Placeholder = "What needs to be done?"
		cmd := m.input.Focus()
		return m, cmd
	case "e":
		task, ok := m.selected()
		if !ok || !m.state.StartEdit(task.ID) {
			return m, nil
		}
		m.mode = modeEdit
		m.input.SetValue(m.state.EditBuffer())
		m.input.CursorEnd()
		m.input.Placeholder = "Edit task..."
		cmd := m.input.Focus()
		return m, cmd
	case " ":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.toggleTask(task)
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteTask(task.ID)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		return m, m.createTask(text)
	case "esc":
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, editing := m.state.Editing()
	if !editing {
		m.leaveInput()
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m, m.saveTask(id, m.state.EditBuffer())
	case "esc":
		m.state.CancelEdit()
		m.leaveInput()
		cmd := m.sync()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.SetEditBuffer(m.input.Value())
	return m, cmd
}

func (m Model) View() string {
	l := m.list
	height := m.height - panelChromeLines - len(m.toasts)
	if m.mode != modeBrowse {
		height -= inputBarHeight
	}
	if height < 1 {
		height = 1
	}
	l.SetSize(m.width-4, height)

	content := l.View()
	if m.loading {
		content = mutedStyle.Render("Loading tasks...")
	}

	if m.mode != modeBrowse {
		title := "Add task"
		if m.mode == modeEdit {
			title = "Edit task  " + helpStyle.Render("enter save • esc cancel")
		}
		content += "\n" + panelStyle.Render(title+"\n"+m.input.View())
	}

	if len(m.toasts) > 0 {
		lines := make([]string, 0, len(m.toasts))
		for _, t := range m.toasts {
			if t.failed {
				lines = append(lines, errorStyle.Render("✖ "+t.text))
				continue
			}
			lines = append(lines, successStyle.Render("✔ "+t.text))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, strings.Join(lines, "\n"))
	}

	return panelStyle.Render(content)
}

func (m Model) selected() (domain.Task, bool) {
	if m.loading {
		return domain.Task{}, false
	}
	return m.state.At(m.list.Index())
}

func (m *Model) leaveInput() {
	m.mode = modeBrowse
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) notify(text string, failed bool) tea.Cmd {
	m.nextToast++
	m.toasts = append(m.toasts, toast{id: m.nextToast, text: text, failed: failed})
	return expireToast(m.nextToast, m.toastTTL)
}

// sync rebuilds the list rows from state.
func (m *Model) sync() tea.Cmd {
	tasks := m.state.Tasks()
	items := make([]list.Item, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, listItem{task: task})
	}
	m.list.Title = m.header()
	return m.list.SetItems(items)
}

func (m Model) header() string {
	done, pending := m.state.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), m.state.Len(),
	)
}

// Package tui implements the interactive notnow terminal UI: a pending and
// a completed task list with forms for adding and editing tasks.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/notnow/internal/store"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

// listView selects which list is on screen.
type listView int

const (
	viewPending listView = iota
	viewCompleted
)

// mode represents the current screen state.
type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// Options configures the TUI.
type Options struct {
	// Theme is ThemeDark or ThemeLight.
	Theme string
	// DescriptionLines is how many description lines are shown per task.
	DescriptionLines int
	// OnThemeChange is called with the new theme after the user toggles it.
	OnThemeChange func(theme string)
}

// Model is the top-level bubbletea model.
type Model struct {
	store    *store.Store
	opts     Options
	keys     keyMap
	formKeys formKeyMap
	help     help.Model
	styles   styles

	view      listView
	mode      mode
	cursor    int
	scrollOff int
	width     int
	height    int

	// Add form.
	titleInput textinput.Model
	descInput  textinput.Model
	addFocus   int
	validation task.Validation

	// Edit form.
	editTitle textinput.Model
	editDesc  textarea.Model
	editFocus int

	// Delete confirmation.
	deleteID    string
	deleteTitle string

	status  string
	err     error
	seenErr error
}

// ReloadMsg is sent by the file watcher to re-read the lists after another
// process wrote them.
type ReloadMsg struct{}

// New creates a Model driving s.
func New(s *store.Store, opts Options) *Model {
	m := &Model{
		store:    s,
		opts:     opts,
		keys:     newKeyMap(),
		formKeys: newFormKeyMap(),
		help:     help.New(),
		styles:   newStyles(opts.Theme),
	}
	m.keys.forView(false)

	m.titleInput = newInput("Title")
	m.descInput = newInput("Description")
	m.editTitle = newInput("Title")
	m.editDesc = textarea.New()
	m.editDesc.Placeholder = "Description"
	m.editDesc.ShowLineNumbers = false
	m.editDesc.SetHeight(5) //nolint:mnd // visible description lines while editing

	// Surface load failures from Open.
	m.checkPersist()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	return ti
}

// Theme returns the active theme name.
func (m *Model) Theme() string { return m.styles.name }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		model, cmd := m.handleKey(msg)
		m.checkPersist()
		return model, cmd
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case ReloadMsg:
		m.reload()
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	const formMargin = 8
	inputWidth := max(width-formMargin, 10) //nolint:mnd // minimum usable input
	m.titleInput.Width = inputWidth
	m.descInput.Width = inputWidth
	m.editTitle.Width = inputWidth
	m.editDesc.SetWidth(inputWidth)
	m.ensureVisible()
}

// reload re-reads the store and keeps the cursor on the same task when it
// still exists.
func (m *Model) reload() {
	selected := m.selectedID()
	m.store.Reload()

	if m.mode == modeEdit {
		if _, _, editing := m.store.Editing(); !editing {
			m.mode = modeList
			m.status = "The task being edited was removed."
		}
	}
	m.selectID(selected)
	m.checkPersist()
}

// checkPersist surfaces a persistence failure the store reported since the
// last check.
func (m *Model) checkPersist() {
	if err := m.store.Err(); err != nil && err != m.seenErr { //nolint:errorlint // identity check
		m.seenErr = err
		m.err = err
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		return m.handleAddKey(msg)
	case modeEdit:
		return m.handleEditKey(msg)
	case modeConfirmDelete:
		return m.handleDeleteKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.count()-1 {
			m.cursor++
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Toggle):
		m.switchView(1 - m.view)
	case key.Matches(msg, m.keys.Add):
		return m, m.openAdd()
	case key.Matches(msg, m.keys.Edit):
		return m, m.openEdit()
	case key.Matches(msg, m.keys.Complete):
		m.completeSelected()
	case key.Matches(msg, m.keys.Undo):
		m.undoSelected()
	case key.Matches(msg, m.keys.Delete):
		m.confirmDelete()
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	}
	return m, nil
}

func (m *Model) switchView(v listView) {
	m.view = v
	m.cursor = 0
	m.scrollOff = 0
	m.keys.forView(v == viewCompleted)
}

func (m *Model) completeSelected() {
	if m.count() == 0 {
		return
	}
	done := m.store.Complete(m.cursor)
	m.status = fmt.Sprintf("Completed %q.", done.Title)
	m.clampCursor()
}

func (m *Model) undoSelected() {
	if m.count() == 0 {
		return
	}
	t := m.store.Undo(m.cursor)
	m.status = fmt.Sprintf("Moved %q back to All Tasks.", t.Title)
	m.clampCursor()
}

func (m *Model) confirmDelete() {
	if m.count() == 0 {
		return
	}
	r := m.rows()[m.cursor]
	m.deleteID = r.id
	m.deleteTitle = r.title
	m.mode = modeConfirmDelete
}

func (m *Model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, confirmYes):
		m.executeDelete()
		m.mode = modeList
	case key.Matches(msg, confirmNo):
		m.mode = modeList
	}
	return m, nil
}

// executeDelete removes the task chosen for deletion. The task is looked up
// by id because a reload may have moved it while the dialog was open.
func (m *Model) executeDelete() {
	if m.view == viewCompleted {
		if i := m.store.CompletedIndexOf(m.deleteID); i >= 0 {
			m.store.DeleteCompleted(i)
		}
	} else if i := m.store.IndexOf(m.deleteID); i >= 0 {
		m.store.Delete(i)
	}
	m.status = fmt.Sprintf("Deleted %q.", m.deleteTitle)
	m.deleteID, m.deleteTitle = "", ""
	m.clampCursor()
}

func (m *Model) toggleTheme() {
	m.styles = newStyles(otherTheme(m.styles.name))
	if m.opts.OnThemeChange != nil {
		m.opts.OnThemeChange(m.styles.name)
	}
}

// --- Selection ---

// row is one displayed task.
type row struct {
	id, title, description, completedOn string
}

func (m *Model) rows() []row {
	if m.view == viewCompleted {
		completed := m.store.Completed()
		rows := make([]row, len(completed))
		for i, c := range completed {
			rows[i] = row{id: c.ID, title: c.Title, description: c.Description, completedOn: c.CompletedOn}
		}
		return rows
	}
	pending := m.store.Pending()
	rows := make([]row, len(pending))
	for i, t := range pending {
		rows[i] = row{id: t.ID, title: t.Title, description: t.Description}
	}
	return rows
}

func (m *Model) count() int {
	if m.view == viewCompleted {
		return len(m.store.CompletedIDs())
	}
	return len(m.store.PendingIDs())
}

func (m *Model) selectedID() string {
	rows := m.rows()
	if m.cursor >= 0 && m.cursor < len(rows) {
		return rows[m.cursor].id
	}
	return ""
}

func (m *Model) selectID(id string) {
	i := -1
	if id != "" {
		if m.view == viewCompleted {
			i = m.store.CompletedIndexOf(id)
		} else {
			i = m.store.IndexOf(id)
		}
	}
	if i >= 0 {
		m.cursor = i
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.count()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

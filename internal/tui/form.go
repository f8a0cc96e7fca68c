package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/notnow/internal/store"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

const (
	focusTitle = iota
	focusDescription
)

// --- Add form ---

func (m *Model) openAdd() tea.Cmd {
	if m.view != viewPending {
		m.switchView(viewPending)
	}
	m.mode = modeAdd
	m.validation = task.Validation{}
	m.addFocus = focusTitle
	m.descInput.Blur()
	return m.titleInput.Focus()
}

func (m *Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.closeAdd()
		return m, nil
	case key.Matches(msg, m.formKeys.Submit):
		m.submitAdd()
		return m, nil
	case key.Matches(msg, m.formKeys.Next):
		return m, m.focusAdd(1 - m.addFocus)
	case key.Matches(msg, enterKey):
		if m.addFocus == focusTitle {
			return m, m.focusAdd(focusDescription)
		}
		m.submitAdd()
		return m, nil
	}

	var cmd tea.Cmd
	if m.addFocus == focusTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusAdd(field int) tea.Cmd {
	m.addFocus = field
	if field == focusTitle {
		m.descInput.Blur()
		return m.titleInput.Focus()
	}
	m.titleInput.Blur()
	return m.descInput.Focus()
}

// submitAdd adds the task. On a validation failure the form stays open with
// per-field messages; on success the inputs are cleared.
func (m *Model) submitAdd() {
	t, v := m.store.Add(m.titleInput.Value(), m.descInput.Value())
	m.validation = v
	if !v.OK() {
		return
	}
	m.closeAdd()
	m.cursor = m.store.IndexOf(t.ID)
	m.ensureVisible()
	m.status = fmt.Sprintf("Added %q.", t.Title)
}

func (m *Model) closeAdd() {
	m.titleInput.Reset()
	m.descInput.Reset()
	m.titleInput.Blur()
	m.descInput.Blur()
	m.validation = task.Validation{}
	m.mode = modeList
}

// --- Edit form ---

func (m *Model) openEdit() tea.Cmd {
	if m.view != viewPending || m.count() == 0 {
		return nil
	}
	m.store.BeginEdit(m.cursor)
	_, working, _ := m.store.Editing()

	m.editTitle.SetValue(working.Title)
	m.editTitle.CursorEnd()
	m.editDesc.SetValue(working.Description)
	m.mode = modeEdit
	m.editFocus = focusTitle
	m.editDesc.Blur()
	return m.editTitle.Focus()
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.store.CancelEdit()
		m.closeEdit()
		return m, nil
	case key.Matches(msg, m.formKeys.Submit):
		if t, ok := m.store.CommitEdit(); ok {
			m.status = fmt.Sprintf("Saved %q.", t.Title)
			m.selectID(t.ID)
		}
		m.closeEdit()
		return m, nil
	case key.Matches(msg, m.formKeys.Next):
		return m, m.focusEdit(1 - m.editFocus)
	case m.editFocus == focusTitle && key.Matches(msg, enterKey):
		return m, m.focusEdit(focusDescription)
	}

	var cmd tea.Cmd
	if m.editFocus == focusTitle {
		m.editTitle, cmd = m.editTitle.Update(msg)
		m.store.UpdateEditField(store.FieldTitle, m.editTitle.Value())
	} else {
		m.editDesc, cmd = m.editDesc.Update(msg)
		m.store.UpdateEditField(store.FieldDescription, m.editDesc.Value())
	}
	return m, cmd
}

func (m *Model) focusEdit(field int) tea.Cmd {
	m.editFocus = field
	if field == focusTitle {
		m.editDesc.Blur()
		return m.editTitle.Focus()
	}
	m.editTitle.Blur()
	return m.editDesc.Focus()
}

func (m *Model) closeEdit() {
	m.editTitle.Blur()
	m.editDesc.Blur()
	m.mode = modeList
}

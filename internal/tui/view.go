package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants.
const (
	headerChrome = 2 // tab bar + blank line
	footerChrome = 3 // blank line + status line + help line
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case modeAdd:
		return m.viewAdd()
	case modeEdit:
		return m.viewEdit()
	case modeConfirmDelete:
		return m.viewDeleteConfirm()
	default:
		return m.viewList()
	}
}

func (m *Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	rows := m.rows()
	body := make([]string, 0, len(rows))
	if len(rows) == 0 {
		if m.view == viewCompleted {
			body = append(body, m.styles.dim.Render("  No completed tasks."))
		} else {
			body = append(body, m.styles.dim.Render("  Nothing to do. Press a to add a task."))
		}
	}

	budget := m.listBudget()
	used := 0
	for i := m.scrollOff; i < len(rows); i++ {
		lines := m.renderRow(i, rows[i])
		if used > 0 && used+len(lines) > budget {
			break
		}
		body = append(body, lines...)
		used += len(lines)
	}

	list := strings.Join(body, "\n")
	if actual := len(body); actual < budget {
		list += strings.Repeat("\n", budget-actual)
	}
	b.WriteString(list)
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	pending := fmt.Sprintf("All Tasks (%d)", len(m.store.PendingIDs()))
	completed := fmt.Sprintf("Completed Tasks (%d)", len(m.store.CompletedIDs()))
	if m.view == viewCompleted {
		return m.styles.tab.Render(pending) + " " + m.styles.activeTab.Render(completed)
	}
	return m.styles.activeTab.Render(pending) + " " + m.styles.tab.Render(completed)
}

// renderRow returns the lines of one task: the numbered title, then up to
// DescriptionLines lines of description.
func (m *Model) renderRow(i int, r row) []string {
	prefix, style := "  ", m.styles.item
	if i == m.cursor {
		prefix, style = "> ", m.styles.selected
	}

	title := fmt.Sprintf("%d. %s", i+1, r.title)
	line := prefix + style.Render(truncate(title, m.width-len(prefix)))
	if r.completedOn != "" {
		line += "  " + m.styles.stamp.Render("Completed on: "+r.completedOn)
	}

	lines := []string{line}
	const descIndent = "     "
	for _, d := range descriptionLines(r.description, m.opts.DescriptionLines) {
		lines = append(lines, descIndent+m.styles.description.Render(truncate(d, m.width-len(descIndent))))
	}
	return lines
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return m.styles.errorLine.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return m.styles.status.Render(m.status)
	}
	return ""
}

func (m *Model) viewAdd() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Add task"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.label.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n")
	if m.validation.TitleMissing {
		b.WriteString(m.styles.invalid.Render("Title is required"))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.label.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.descInput.View())
	b.WriteString("\n")
	if m.validation.DescriptionMissing {
		b.WriteString(m.styles.invalid.Render("Description is required"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.dim.Render("enter next/add"))
	b.WriteString("  ")
	b.WriteString(m.help.View(m.formKeys))
	return b.String()
}

func (m *Model) viewEdit() string {
	idx, _, _ := m.store.Editing()

	var b strings.Builder
	b.WriteString(m.styles.title.Render(fmt.Sprintf("Edit task %d", idx+1)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.label.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.editTitle.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.label.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.editDesc.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.formKeys))
	return b.String()
}

func (m *Model) viewDeleteConfirm() string {
	list := "All Tasks"
	if m.view == viewCompleted {
		list = "Completed Tasks"
	}
	content := fmt.Sprintf("Delete %q from %s?\n\n%s",
		truncate(m.deleteTitle, max(m.width/2, 20)), list, //nolint:mnd // dialog width
		m.styles.dim.Render("y confirm • n cancel"))

	dialog := m.styles.dialog.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

// listBudget is the number of lines available for task rows.
func (m *Model) listBudget() int {
	return max(m.height-headerChrome-footerChrome, 1)
}

func (m *Model) rowHeight(r row) int {
	return 1 + len(descriptionLines(r.description, m.opts.DescriptionLines))
}

// ensureVisible adjusts the scroll offset so the cursor row is on screen.
func (m *Model) ensureVisible() {
	if m.cursor < m.scrollOff {
		m.scrollOff = m.cursor
		return
	}
	if m.height == 0 {
		return
	}

	rows := m.rows()
	if m.cursor >= len(rows) {
		return
	}
	budget := m.listBudget()
	for m.scrollOff < m.cursor {
		used := 0
		for i := m.scrollOff; i <= m.cursor; i++ {
			used += m.rowHeight(rows[i])
		}
		if used <= budget {
			return
		}
		m.scrollOff++
	}
}

// descriptionLines returns at most n non-empty lines of s.
func descriptionLines(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

// truncate shortens s to at most width cells, marking the cut with "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/notnow/internal/activity"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	// Action colors for the activity log.
	actionStyles = map[string]lipgloss.Style{
		"add":              lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"edit":             lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		"complete":         lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"undo":             lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"delete":           lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"delete-completed": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	idStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	actionStyles = map[string]lipgloss.Style{}
}

const (
	maxTitleWidth       = 40
	maxDescriptionWidth = 50
)

// TaskTable renders tasks as a formatted table. The COMPLETED ON column is
// shown when completed is true.
func TaskTable(w io.Writer, rows []Row, completed bool) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	posW, idW, titleW, descW := 3, 10, 7, 13
	for _, r := range rows {
		posW = max(posW, len(strconv.Itoa(r.Position))+pad)
		titleW = max(titleW, min(lipgloss.Width(r.Title)+pad, maxTitleWidth+pad))
		descW = max(descW, min(lipgloss.Width(firstLine(r.Description))+pad, maxDescriptionWidth+pad))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s", posW, "#", idW, "ID", titleW, "TITLE", descW, "DESCRIPTION")
	if completed {
		header += " COMPLETED ON"
	}
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, r := range rows {
		desc := Truncate(firstLine(r.Description), maxDescriptionWidth)
		if desc == "" {
			desc = dimStyle.Render("--")
		}
		row := fmt.Sprintf("%-*d %s %s %s",
			posW, r.Position,
			padRight(idStyle.Render(task.ShortID(r.ID)), idW),
			padRight(Truncate(r.Title, maxTitleWidth), titleW),
			padRight(desc, descW))
		if completed {
			row += " " + doneStyle.Render(stringOrDash(r.CompletedOn))
		}
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. body is the
// already-rendered description.
func TaskDetail(w io.Writer, r Row, body string) {
	titleLine := fmt.Sprintf("Task %d: %s", r.Position, r.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", idStyle.Render(r.ID))
	if r.CompletedOn != "" {
		printField(w, "Completed", doneStyle.Render(r.CompletedOn))
	} else {
		printField(w, "Status", "pending")
	}

	if strings.TrimSpace(body) != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(body, "\n"))
	}
}

// LogTable renders activity log entries, oldest first.
func LogTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}

	const timeW, actionW, idW = 20, 18, 10
	header := fmt.Sprintf("%-*s %-*s %-*s %s", timeW, "TIME", actionW, "ACTION", idW, "ID", "TITLE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, e := range entries {
		row := fmt.Sprintf("%-*s %s %s %s",
			timeW, e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			padRight(styledValue(e.Action, actionStyles), actionW),
			padRight(idStyle.Render(task.ShortID(e.TaskID)), idW),
			Truncate(e.Title, maxTitleWidth))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// Truncate shortens s to at most width cells, marking the cut with "...".
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	const ellipsis = "..."
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}

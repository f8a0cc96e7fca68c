package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/notnow/internal/activity"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

// TaskCompact renders tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, r := range rows {
		fmt.Fprintln(w, formatTaskLine(r))
	}
}

// TaskDetailCompact renders a single task with its full description.
func TaskDetailCompact(w io.Writer, r Row) {
	fmt.Fprintln(w, formatTaskLine(r))
	for _, line := range strings.Split(r.Description, "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}

// LogCompact renders activity log entries one per line.
func LogCompact(w io.Writer, entries []activity.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s %s\n",
			e.Timestamp.Local().Format("2006-01-02T15:04:05"), e.Action, task.ShortID(e.TaskID), e.Title)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(r Row) string {
	line := strconv.Itoa(r.Position) + " [" + task.ShortID(r.ID) + "] " + r.Title
	if d := firstLine(r.Description); d != "" {
		line += " - " + d
	}
	if r.CompletedOn != "" {
		line += " (completed " + r.CompletedOn + ")"
	}
	return line
}

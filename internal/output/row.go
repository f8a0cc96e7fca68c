package output

import "github.com/twiced-technology-gmbh/notnow/internal/task"

// Row is one listed task together with its 1-based position in its list.
// Positions survive filtering so they can be passed back as task refs.
type Row struct {
	Position    int    `json:"position"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CompletedOn string `json:"completedOn,omitempty"`
}

// PendingRows numbers a pending list.
func PendingRows(tasks []task.Task) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Position: i + 1, ID: t.ID, Title: t.Title, Description: t.Description}
	}
	return rows
}

// CompletedRows numbers a completed list.
func CompletedRows(tasks []task.CompletedTask) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{
			Position:    i + 1,
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			CompletedOn: t.CompletedOn,
		}
	}
	return rows
}

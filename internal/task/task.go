// Package task defines pending and completed tasks and the rules for
// creating, addressing, and transitioning them.
package task

import (
	"strings"

	"github.com/google/uuid"
)

// Task is a pending task.
type Task struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// CompletedTask is a task that was completed at CompletedOn. The stamp is
// fixed when the task completes and never recomputed.
type CompletedTask struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
	CompletedOn string `json:"completedOn" yaml:"completedOn" toml:"completedOn"`
}

// New creates a task with a fresh id. Callers validate the fields first.
func New(title, description string) Task {
	return Task{ID: NewID(), Title: title, Description: description}
}

// NewID returns a new stable task identifier.
func NewID() string {
	return uuid.NewString()
}

// Complete copies t into a completed task stamped with completedOn.
func (t Task) Complete(completedOn string) CompletedTask {
	return CompletedTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CompletedOn: completedOn,
	}
}

// Reopen strips the completion stamp, demoting c back to a pending task.
func (c CompletedTask) Reopen() Task {
	return Task{ID: c.ID, Title: c.Title, Description: c.Description}
}

// ShortID returns the first 8 characters of the id, enough to address a
// task from the command line.
func ShortID(id string) string {
	const n = 8
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > n {
		return id[:n]
	}
	return id
}

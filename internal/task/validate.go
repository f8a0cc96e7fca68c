package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
)

// Validation reports which required fields of a new task are missing.
// Both flags are computed independently so a form can show both messages.
type Validation struct {
	TitleMissing       bool `json:"title_missing"`
	DescriptionMissing bool `json:"description_missing"`
}

// Validate checks that title and description are not empty or whitespace-only.
func Validate(title, description string) Validation {
	return Validation{
		TitleMissing:       strings.TrimSpace(title) == "",
		DescriptionMissing: strings.TrimSpace(description) == "",
	}
}

// OK reports whether both fields are present.
func (v Validation) OK() bool {
	return !v.TitleMissing && !v.DescriptionMissing
}

// Messages returns the inline messages for the missing fields, in form order.
func (v Validation) Messages() []string {
	var msgs []string
	if v.TitleMissing {
		msgs = append(msgs, "Title is required")
	}
	if v.DescriptionMissing {
		msgs = append(msgs, "Description is required")
	}
	return msgs
}

// Err converts a failed validation into a CLI error, or nil when OK.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return clierr.New(clierr.ValidationFailed, strings.Join(v.Messages(), "; ")).
		WithDetails(map[string]any{
			"title_missing":       v.TitleMissing,
			"description_missing": v.DescriptionMissing,
		})
}

// ValidateRef returns a CLI error for an unparseable task reference.
func ValidateRef(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskRef,
		"invalid task reference %q (use a list position or an id prefix)", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLI error for a reference that matches no task.
func NotFound(input, list string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found in %s list: %s", list, input).
		WithDetails(map[string]any{"ref": input, "list": list})
}

// Ambiguous returns a CLI error for an id prefix that matches several tasks.
func Ambiguous(input string, matches int) *clierr.Error {
	return clierr.Newf(clierr.AmbiguousTaskRef,
		"task reference %q matches %d tasks; use a longer prefix", input, matches).
		WithDetails(map[string]any{"ref": input, "matches": matches})
}

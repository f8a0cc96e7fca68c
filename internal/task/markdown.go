package task

import "strings"

// Markdown renders a task as a small markdown document: the title as a
// heading followed by the description. completedOn is appended as a
// footnote line when non-empty.
func Markdown(title, description, completedOn string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimRight(description, "\n"))
	b.WriteString("\n")
	if completedOn != "" {
		b.WriteString("\n---\n\n_Completed on: ")
		b.WriteString(completedOn)
		b.WriteString("_\n")
	}
	return b.String()
}

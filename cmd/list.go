package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists pending tasks, or completed tasks with --completed.
Positions in the first column can be passed to other commands as task refs.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().Bool("completed", false, "list completed tasks")
	listCmd.Flags().StringP("search", "s", "", "only tasks whose title or description contains this text")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	completed, _ := cmd.Flags().GetBool("completed")
	search, _ := cmd.Flags().GetString("search")

	sess, err := openSession(readOnly)
	if err != nil {
		return err
	}
	defer sess.Close()

	var rows []output.Row
	if completed {
		rows = output.CompletedRows(sess.store.Completed())
	} else {
		rows = output.PendingRows(sess.store.Pending())
	}
	rows = filterRows(rows, search)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, rows)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, rows)
	default:
		output.TaskTable(os.Stdout, rows, completed)
	}
	return nil
}

// filterRows keeps rows whose title or description contains search,
// case-insensitively. Positions are kept as they were.
func filterRows(rows []output.Row, search string) []output.Row {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return rows
	}
	out := make([]output.Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Title), search) ||
			strings.Contains(strings.ToLower(r.Description), search) {
			out = append(out, r)
		}
	}
	return out
}

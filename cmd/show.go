package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/output"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show REF",
	Short: "Show task details",
	Long: `Displays a single task with its description rendered as markdown.
REF is a list position or an id prefix. Use --raw to print the markdown source.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("completed", false, "look the task up in the completed list")
	showCmd.Flags().Bool("raw", false, "print the task as markdown without rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	completed, _ := cmd.Flags().GetBool("completed")
	raw, _ := cmd.Flags().GetBool("raw")

	sess, err := openSession(readOnly)
	if err != nil {
		return err
	}
	defer sess.Close()

	var r output.Row
	if completed {
		i, err := sess.resolveCompleted(args[0])
		if err != nil {
			return err
		}
		r = output.CompletedRows(sess.store.Completed())[i]
	} else {
		i, err := sess.resolvePending(args[0])
		if err != nil {
			return err
		}
		r = output.PendingRows(sess.store.Pending())[i]
	}

	if raw {
		fmt.Fprint(os.Stdout, task.Markdown(r.Title, r.Description, r.CompletedOn))
		return nil
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, r)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, r)
		return nil
	}

	output.TaskDetail(os.Stdout, r, renderMarkdown(r.Description))
	return nil
}

// renderMarkdown renders md for the terminal, falling back to the source
// when rendering fails.
func renderMarkdown(md string) string {
	style := glamour.WithAutoStyle()
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		style = glamour.WithStandardStyle("notty")
	}
	const wrap = 80
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

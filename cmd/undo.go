package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

var undoCmd = &cobra.Command{
	Use:   "undo REF...",
	Short: "Move completed tasks back to the pending list",
	Long: `Moves completed tasks to the end of the pending list and drops their
completion stamp. REF addresses the completed list (see 'notnow list --completed').`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(_ *cobra.Command, args []string) error {
	sess, err := openSession(mutating)
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(args) > 1 {
		return runBatch(sess.resolveAll(args, true), "Restored", func(id string) error {
			i := sess.store.CompletedIndexOf(id)
			if i < 0 {
				return taskGone(id, "completed")
			}
			sess.store.Undo(i)
			return sess.persisted()
		})
	}

	i, err := sess.resolveCompleted(args[0])
	if err != nil {
		return err
	}
	t := sess.store.Undo(i)
	if err := sess.persisted(); err != nil {
		return err
	}

	row := output.PendingRows(sess.store.Pending())[sess.store.IndexOf(t.ID)]
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, row)
	}
	output.Messagef(os.Stdout, "Restored task %d: %s", row.Position, t.Title)
	return nil
}

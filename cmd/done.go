package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

var doneCmd = &cobra.Command{
	Use:     "done REF...",
	Aliases: []string{"complete"},
	Short:   "Complete pending tasks",
	Long: `Moves pending tasks to the end of the completed list, stamped with the
current local date and time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(_ *cobra.Command, args []string) error {
	sess, err := openSession(mutating)
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(args) > 1 {
		return runBatch(sess.resolveAll(args, false), "Completed", func(id string) error {
			i := sess.store.IndexOf(id)
			if i < 0 {
				return taskGone(id, "pending")
			}
			sess.store.Complete(i)
			return sess.persisted()
		})
	}

	i, err := sess.resolvePending(args[0])
	if err != nil {
		return err
	}
	done := sess.store.Complete(i)
	if err := sess.persisted(); err != nil {
		return err
	}

	completed := sess.store.Completed()
	row := output.CompletedRows(completed)[len(completed)-1]
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, row)
	}
	output.Messagef(os.Stdout, "Completed: %s", done.Title)
	output.Messagef(os.Stdout, "  Completed on: %s", done.CompletedOn)
	return nil
}

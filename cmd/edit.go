package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
	"github.com/twiced-technology-gmbh/notnow/internal/store"
)

var editCmd = &cobra.Command{
	Use:   "edit REF",
	Short: "Edit a pending task",
	Long: `Changes the title and/or description of a pending task in place.
The task keeps its position. Edited values are saved as given.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description")
	editCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	changes := map[store.Field]string{}
	for _, f := range []store.Field{store.FieldTitle, store.FieldDescription} {
		if cmd.Flags().Changed(string(f)) {
			changes[f], _ = cmd.Flags().GetString(string(f))
		}
	}
	if len(changes) == 0 {
		return clierr.New(clierr.NoChanges, "nothing to change; use --title and/or --description")
	}

	sess, err := openSession(mutating)
	if err != nil {
		return err
	}
	defer sess.Close()

	i, err := sess.resolvePending(args[0])
	if err != nil {
		return err
	}

	sess.store.BeginEdit(i)
	for field, value := range changes {
		sess.store.UpdateEditField(field, value)
	}
	t, ok := sess.store.CommitEdit()
	if !ok {
		return taskGone(args[0], "pending")
	}
	if err := sess.persisted(); err != nil {
		return err
	}

	row := output.PendingRows(sess.store.Pending())[i]
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, row)
	}
	output.Messagef(os.Stdout, "Updated task %d: %s", row.Position, t.Title)
	return nil
}

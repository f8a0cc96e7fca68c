package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

var addCmd = &cobra.Command{
	Use:     "add [TITLE] [DESCRIPTION]",
	Aliases: []string{"create", "new"},
	Short:   "Add a pending task",
	Long: `Adds a task to the end of the pending list.

Title and description can be given as positional arguments or via --title
and --description. Both are required and may not be blank.`,
	Args: cobra.MaximumNArgs(2), //nolint:mnd // title and description
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("title", "", "task title (alternative to the first argument)")
	addCmd.Flags().String("description", "", "task description (alternative to the second argument)")
	addCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, err := argOrFlag(cmd, args, 0, "title")
	if err != nil {
		return err
	}
	description, err := argOrFlag(cmd, args, 1, "description")
	if err != nil {
		return err
	}

	sess, err := openSession(mutating)
	if err != nil {
		return err
	}
	defer sess.Close()

	t, v := sess.store.Add(title, description)
	if err := v.Err(); err != nil {
		return err
	}
	if err := sess.persisted(); err != nil {
		return err
	}

	row := output.PendingRows(sess.store.Pending())[sess.store.IndexOf(t.ID)]
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, row)
	}

	output.Messagef(os.Stdout, "Added task %d: %s", row.Position, t.Title)
	output.Messagef(os.Stdout, "  ID: %s", t.ID)
	return nil
}

// argOrFlag returns the positional argument at pos or the named flag. Giving
// both is an error; giving neither returns "" and leaves validation to the
// store.
func argOrFlag(cmd *cobra.Command, args []string, pos int, flag string) (string, error) {
	flagValue, _ := cmd.Flags().GetString(flag)
	hasPositional := len(args) > pos
	hasFlag := cmd.Flags().Changed(flag)

	switch {
	case hasPositional && hasFlag:
		return "", clierr.Newf(clierr.InvalidInput,
			"%s provided both as argument and --%s flag; use one or the other", flag, flag)
	case hasPositional:
		return args[pos], nil
	default:
		return flagValue, nil
	}
}

// normalizeTaskFlags accepts common spellings of the task field flags.
func normalizeTaskFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "desc", "body":
		name = "description"
	case "name":
		name = "title"
	}
	return pflag.NormalizedName(name)
}

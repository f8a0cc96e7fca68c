package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete REF...",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Long: `Removes tasks from the pending list, or from the completed list with
--completed. Prompts for confirmation in interactive mode.
Deleting several tasks at once requires --yes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	deleteCmd.Flags().Bool("completed", false, "delete from the completed list")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	completed, _ := cmd.Flags().GetBool("completed")

	// Batch mode requires --yes.
	if len(args) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	sess, err := openSession(mutating)
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(args) > 1 {
		return runBatch(sess.resolveAll(args, completed), "Deleted", func(id string) error {
			return sess.deleteByID(id, completed)
		})
	}

	var i int
	var title, id string
	if completed {
		if i, err = sess.resolveCompleted(args[0]); err != nil {
			return err
		}
		c := sess.store.Completed()[i]
		title, id = c.Title, c.ID
	} else {
		if i, err = sess.resolvePending(args[0]); err != nil {
			return err
		}
		t := sess.store.Pending()[i]
		title, id = t.Title, t.ID
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete task %d %q?", i+1, title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := sess.deleteByID(id, completed); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     id,
			"title":  title,
		})
	}
	output.Messagef(os.Stdout, "Deleted task %d: %s", i+1, title)
	return nil
}

func (s *session) deleteByID(id string, completed bool) error {
	if completed {
		i := s.store.CompletedIndexOf(id)
		if i < 0 {
			return taskGone(id, "completed")
		}
		s.store.DeleteCompleted(i)
	} else {
		i := s.store.IndexOf(id)
		if i < 0 {
			return taskGone(id, "pending")
		}
		s.store.Delete(i)
	}
	return s.persisted()
}

// confirm asks a yes/no question on the terminal. Without a terminal it
// fails with CONFIRMATION_REQUIRED.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

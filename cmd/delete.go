package cmd

import (
	"fmt"
	"io"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

var forceDelete bool

// confirmDelete asks before deleting. Tests replace it.
var confirmDelete = func(e entry.Entry) (bool, error) {
	return ui.ConfirmDelete(e, ui.ResolveTheme(appConfig.Theme))
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a diary entry",
	Long:  "Permanently delete a diary entry. Requires confirmation unless --force is used.",
	Example: `  daybook delete a3kf9x2m
  daybook delete a3kf9x2m --force`,
	Args:     cobra.ExactArgs(1),
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd.OutOrStdout(), args[0], forceDelete)
	},
}

func runDelete(w io.Writer, id string, force bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	e, err := journ.Get(id)
	if err != nil {
		return lookup("entry", id, err)
	}

	if !force {
		confirmed, err := confirmDelete(e)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := journ.Delete(id); err != nil {
		return lookup("entry", id, err)
	}

	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{ID: id, Deleted: true})
	}
	ui.FormatEntryDeleted(w, id)
	return nil
}

func init() {
	deleteCmd.Flags().BoolVar(&forceDelete, "force", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

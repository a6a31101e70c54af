package cmd

import (
	"fmt"
	"io"

	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

var checkItemCmd = &cobra.Command{
	Use:     "checkitem",
	Aliases: []string{"checkitems"},
	Short:   "Manage reusable checklist items",
	Long: `Manage the reusable checklist items that entries can tick.

An entry keeps the title an item had when it was ticked, so renaming or
deleting an item never rewrites old entries.`,
}

var checkItemAddCmd = &cobra.Command{
	Use:     "add <title>",
	Short:   "Add a check item",
	Example: `  daybook checkitem add "Meditate"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckItemAdd(cmd.OutOrStdout(), args[0])
	},
}

var checkItemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List check items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckItemList(cmd.OutOrStdout())
	},
}

var checkItemRenameCmd = &cobra.Command{
	Use:     "rename <id> <title>",
	Short:   "Rename a check item",
	Example: `  daybook checkitem rename p8xq2r1z "Breathe"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckItemRename(cmd.OutOrStdout(), args[0], args[1])
	},
}

var checkItemDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a check item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckItemDelete(cmd.OutOrStdout(), args[0])
	},
}

func runCheckItemAdd(w io.Writer, title string) error {
	c, err := journ.CreateCheckItem(title)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, c)
	}
	fmt.Fprintf(w, "Created check item %s (%s)\n", c.ID, c.Title)
	return nil
}

func runCheckItemList(w io.Writer) error {
	items, err := journ.ListCheckItems()
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, items)
	}
	ui.FormatCheckItems(w, items)
	return nil
}

func runCheckItemRename(w io.Writer, id, title string) error {
	if err := validateID(id); err != nil {
		return err
	}
	c, err := journ.RenameCheckItem(id, title)
	if err != nil {
		return lookup("check item", id, err)
	}
	if jsonOutput {
		return ui.FormatJSON(w, c)
	}
	fmt.Fprintf(w, "Renamed check item %s to %s\n", c.ID, c.Title)
	return nil
}

func runCheckItemDelete(w io.Writer, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := journ.DeleteCheckItem(id); err != nil {
		return lookup("check item", id, err)
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{ID: id, Deleted: true})
	}
	fmt.Fprintf(w, "Deleted check item %s.\n", id)
	return nil
}

func init() {
	checkItemCmd.AddCommand(checkItemAddCmd, checkItemListCmd, checkItemRenameCmd, checkItemDeleteCmd)
	rootCmd.AddCommand(checkItemCmd)
}

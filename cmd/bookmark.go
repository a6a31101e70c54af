package cmd

import (
	"io"

	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:      "bookmark <id>",
	Short:    "Bookmark a diary entry",
	Example:  `  daybook bookmark a3kf9x2m`,
	Args:     cobra.ExactArgs(1),
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBookmark(cmd.OutOrStdout(), args[0], true)
	},
}

var unbookmarkCmd = &cobra.Command{
	Use:      "unbookmark <id>",
	Short:    "Remove the bookmark from a diary entry",
	Example:  `  daybook unbookmark a3kf9x2m`,
	Args:     cobra.ExactArgs(1),
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBookmark(cmd.OutOrStdout(), args[0], false)
	},
}

func runBookmark(w io.Writer, id string, bookmarked bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	e, err := journ.SetBookmarked(id, bookmarked)
	if err != nil {
		return lookup("entry", id, err)
	}
	if jsonOutput {
		return ui.FormatJSON(w, e)
	}
	ui.FormatBookmark(w, e)
	return nil
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(unbookmarkCmd)
}

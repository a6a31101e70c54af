package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

var showBodyOnly bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a diary entry",
	Long:  "Display the full body and metadata of a diary entry.",
	Example: `  daybook show a3kf9x2m
  daybook show a3kf9x2m --body-only
  daybook show a3kf9x2m --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput || showBodyOnly {
			return runShow(cmd.OutOrStdout(), args[0], showBodyOnly)
		}
		var buf bytes.Buffer
		if err := runShow(&buf, args[0], false); err != nil {
			return err
		}
		return page(&buf)
	},
}

func runShow(w io.Writer, id string, bodyOnly bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	e, err := journ.Get(id)
	if err != nil {
		return lookup("entry", id, err)
	}

	switch {
	case bodyOnly:
		fmt.Fprintln(w, e.Body)
		return nil
	case jsonOutput:
		return ui.FormatJSON(w, e)
	default:
		ui.FormatEntryFull(w, e, ui.ResolveTheme(appConfig.Theme).MarkdownStyle)
		return nil
	}
}

func init() {
	showCmd.Flags().BoolVar(&showBodyOnly, "body-only", false, "print just the entry body")
	rootCmd.AddCommand(showCmd)
}

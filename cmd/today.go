package cmd

import (
	"fmt"
	"io"

	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

var todayIDOnly bool

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List entries dated today",
	Long: `List the entries whose diary date is today, newest first, followed by
the current streak.`,
	Example: `  daybook today
  daybook today --id-only
  daybook today --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd.OutOrStdout(), todayIDOnly)
	},
}

// todayResult is the JSON output of today.
type todayResult struct {
	Entries []ui.EntrySummary `json:"entries"`
	Streak  int               `json:"streak"`
}

func runToday(w io.Writer, idOnly bool) error {
	now := journ.Now()
	cal := journ.Calendar()
	start := cal.StartOfDay(now)
	entries, err := queries.EntriesInInterval(start, cal.AddDays(start, 1))
	if err != nil {
		return err
	}

	if idOnly {
		for _, e := range entries {
			fmt.Fprintln(w, e.ID)
		}
		return nil
	}

	streak, err := journ.Streak(now)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, todayResult{Entries: ui.ToSummaries(entries), Streak: streak})
	}

	fmt.Fprintf(w, "── %s ──────────\n", start.Format("Monday, January 2 2006"))
	ui.FormatEntryList(w, entries)
	days := "days"
	if streak == 1 {
		days = "day"
	}
	fmt.Fprintf(w, "\nStreak: %d %s\n", streak, days)
	return nil
}

func init() {
	todayCmd.Flags().BoolVar(&todayIDOnly, "id-only", false, "print just entry IDs, one per line")
	rootCmd.AddCommand(todayCmd)
}

package cmd

import (
	"fmt"
	"io"

	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of diary entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(cmd.OutOrStdout())
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Print the current writing streak",
	Long: `Print the number of consecutive days, ending today or yesterday, on which
at least one entry was created. The streak follows when entries were written,
not the diary date they carry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStreak(cmd.OutOrStdout())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry count, streak and whether you wrote today",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.OutOrStdout())
	},
}

func runCount(w io.Writer) error {
	n, err := journ.Count()
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, map[string]int{"count": n})
	}
	fmt.Fprintln(w, n)
	return nil
}

func runStreak(w io.Writer) error {
	n, err := journ.Streak(journ.Now())
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, map[string]int{"streak": n})
	}
	fmt.Fprintln(w, n)
	return nil
}

func runStats(w io.Writer) error {
	sum, err := journ.Summary(journ.Now())
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, sum)
	}
	ui.FormatStats(w, sum.Count, sum.Streak, sum.WrittenToday)
	return nil
}

func init() {
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(statsCmd)
}

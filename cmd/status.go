package cmd

import (
	"io"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/shell"
	"github.com/spf13/cobra"
)

type statusOptions struct {
	env     bool
	refresh bool
	format  string
}

var statusOpts statusOptions

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show diary prompt status",
	Long: `Show diary status for shell prompt integration.

Outputs the written-today indicator and the streak. Reads from the prompt
cache when it is fresh and from storage when it is stale, expired, or from
another day.

Use --env to output shell environment variable assignments.
Use --refresh to force a cache refresh.
Use --format with a Go template for custom output.`,
	Example: `  daybook status
  daybook status --env
  daybook status --refresh
  daybook status --format "{{.TodayIcon}} {{.Streak}}{{.StreakIcon}} ({{.Count}})"`,
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.OutOrStdout(), statusOpts, time.Now())
	},
}

func runStatus(w io.Writer, opts statusOptions, now time.Time) error {
	ttl, err := time.ParseDuration(appConfig.Shell.CacheTTL)
	if err != nil {
		ttl = 5 * time.Minute
	}

	cache, err := shell.Status(func() (shell.Summarizer, error) {
		if err := openJournal(); err != nil {
			return nil, err
		}
		return journ, nil
	}, shell.StatusOptions{
		DataDir: appConfig.DataDir,
		Backend: appConfig.Storage,
		TTL:     ttl,
		Force:   opts.refresh,
		Now:     now,
		Cal:     calendar.Local(),
	})
	if err != nil {
		return err
	}

	data := shell.NewStatusData(cache, shell.Icons{
		Today:   appConfig.Shell.TodayIcon,
		NoToday: appConfig.Shell.NoTodayIcon,
		Streak:  appConfig.Shell.StreakIcon,
	})
	switch {
	case opts.env:
		shell.WriteEnv(w, data)
		return nil
	case opts.format != "":
		if err := shell.WriteTemplate(w, data, opts.format); err != nil {
			return invalidf("%v", err)
		}
		return nil
	default:
		shell.WriteDefault(w, data, appConfig.Shell.ShowBackend)
		return nil
	}
}

func init() {
	statusCmd.Flags().BoolVar(&statusOpts.env, "env", false, "output shell environment variable assignments")
	statusCmd.Flags().BoolVar(&statusOpts.refresh, "refresh", false, "force cache refresh")
	statusCmd.Flags().StringVar(&statusOpts.format, "format", "", "Go template format string")
	rootCmd.AddCommand(statusCmd)
}

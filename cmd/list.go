package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

type listOptions struct {
	month      string
	from       string
	to         string
	bookmarked bool
	idOnly     bool
	watch      bool
}

var listOpts listOptions

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List diary entries",
	Long: `List diary entries, newest diary date first.

--month selects one calendar month. --from and --to select the half-open
interval [from, to): entries dated on --to are not included. Entries without
a diary date only appear in the unfiltered list.`,
	Example: `  daybook list
  daybook list --month 2026-07
  daybook list --from 2026-07-01 --to 2026-07-08
  daybook list --bookmarked
  daybook list --month 2026-07 --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listOpts.watch {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runListWatch(ctx, cmd.OutOrStdout(), listOpts)
		}

		entries, err := listEntries(listOpts)
		if err != nil {
			return err
		}
		if listOpts.idOnly {
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			}
			return nil
		}
		if jsonOutput {
			return ui.FormatJSON(cmd.OutOrStdout(), ui.ToSummaries(entries))
		}
		var buf bytes.Buffer
		ui.FormatEntryList(&buf, entries)
		return page(&buf)
	},
}

// listQuery turns the flags into a query. The flags are exclusive.
func listQuery(opts listOptions) (storage.Query, error) {
	set := 0
	for _, on := range []bool{opts.month != "", opts.from != "" || opts.to != "", opts.bookmarked} {
		if on {
			set++
		}
	}
	if set > 1 {
		return storage.Query{}, invalidf("--month, --from/--to and --bookmarked cannot be combined")
	}

	switch {
	case opts.month != "":
		m, err := parseMonth("month", opts.month)
		if err != nil {
			return storage.Query{}, err
		}
		return queries.Month(m), nil
	case opts.from != "" || opts.to != "":
		if opts.from == "" || opts.to == "" {
			return storage.Query{}, invalidf("--from and --to must be used together")
		}
		from, err := parseDay("from", opts.from)
		if err != nil {
			return storage.Query{}, err
		}
		to, err := parseDay("to", opts.to)
		if err != nil {
			return storage.Query{}, err
		}
		return queries.Interval(from, to), nil
	case opts.bookmarked:
		return storage.Query{Bookmarked: true}, nil
	default:
		return storage.Query{}, nil
	}
}

func listEntries(opts listOptions) ([]entry.Entry, error) {
	q, err := listQuery(opts)
	if err != nil {
		return nil, err
	}
	return journ.List(q)
}

// runListWatch reprints the list every time the journal changes, until ctx
// is cancelled.
func runListWatch(ctx context.Context, w io.Writer, opts listOptions) error {
	q, err := listQuery(opts)
	if err != nil {
		return err
	}
	if err := journ.Watch(); err != nil {
		logger.Warn("could not watch storage for external edits", "err", err)
	}

	for snap := range queries.Live(ctx, q) {
		if snap.Err != nil {
			return snap.Err
		}
		if jsonOutput {
			if err := ui.FormatJSON(w, ui.ToSummaries(snap.Entries)); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "── %s ──\n", journ.Now().Local().Format("15:04:05"))
		ui.FormatEntryList(w, snap.Entries)
	}
	return nil
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listOpts.month, "month", "", "only entries dated in this month (YYYY-MM)")
	f.StringVar(&listOpts.from, "from", "", "start of the date interval, inclusive (YYYY-MM-DD)")
	f.StringVar(&listOpts.to, "to", "", "end of the date interval, exclusive (YYYY-MM-DD)")
	f.BoolVar(&listOpts.bookmarked, "bookmarked", false, "only bookmarked entries")
	f.BoolVar(&listOpts.idOnly, "id-only", false, "print just entry IDs, one per line")
	f.BoolVar(&listOpts.watch, "watch", false, "keep running and reprint when entries change")
	rootCmd.AddCommand(listCmd)
}

package cmd

import (
	"io"

	"github.com/chris-regnier/daybook/internal/editor"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

type createOptions struct {
	title    string
	date     string
	weather  string
	image    string
	bookmark bool
	checks   []string
}

var createOpts createOptions

// createResult is the JSON output of create.
type createResult struct {
	entry.Entry
	Warnings []string `json:"warnings"`
}

var createCmd = &cobra.Command{
	Use:   "create [body]",
	Short: "Create a new diary entry",
	Long: `Create a new diary entry.

The body can be given inline, read from stdin with "-", or written in your
editor when omitted. In the editor, a leading "# " line becomes the title.

Titles longer than 10 characters and bodies longer than 1000 characters are
saved anyway, with a warning.`,
	Example: `  daybook create "Walked to the lake."
  daybook create --title Lake --date 2026-07-04 --weather sunny "Swam."
  echo "Quiet day." | daybook create -
  daybook create --check a3kf9x2m --check p8xq2r1z
  daybook create`,
	Args:     cobra.MaximumNArgs(1),
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		var body *string
		if len(args) == 1 {
			b, err := readBody(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			body = &b
		}
		return runCreate(cmd.OutOrStdout(), cmd.ErrOrStderr(), createOpts, body)
	},
}

func runCreate(w, errw io.Writer, opts createOptions, body *string) error {
	d := entry.Draft{Title: opts.title, Bookmarked: opts.bookmark}

	if opts.date != "" {
		date, err := parseDay("date", opts.date)
		if err != nil {
			return err
		}
		d.Date = &date
	}
	weather, err := parseWeather(opts.weather)
	if err != nil {
		return err
	}
	d.Weather = weather
	if opts.image != "" {
		if d.Image, err = readImage(opts.image); err != nil {
			return err
		}
	}
	if len(opts.checks) > 0 {
		if d.Checklist, err = journ.Checked(opts.checks); err != nil {
			return err
		}
	}

	if body != nil {
		d.Body = *body
	} else {
		doc, changed, err := editor.Edit(editor.ResolveEditor(appConfig.Editor), editor.Document{Title: d.Title})
		if err != nil {
			return err
		}
		if !changed {
			return invalidf("nothing written, entry not created")
		}
		d.Title, d.Body = doc.Title, doc.Body
	}

	e, err := journ.Create(d)
	if err != nil {
		return err
	}
	warnings := entry.Advise(e.Title, e.Body)

	if jsonOutput {
		if warnings == nil {
			warnings = []string{}
		}
		return ui.FormatJSON(w, createResult{Entry: e, Warnings: warnings})
	}
	ui.FormatEntryCreated(w, e)
	ui.FormatWarnings(errw, warnings)
	return nil
}

func init() {
	f := createCmd.Flags()
	f.StringVarP(&createOpts.title, "title", "t", "", "entry title")
	f.StringVarP(&createOpts.date, "date", "d", "", "diary date (YYYY-MM-DD)")
	f.StringVarP(&createOpts.weather, "weather", "w", "", weatherHelp)
	f.StringVar(&createOpts.image, "image", "", "path to a photo")
	f.BoolVar(&createOpts.bookmark, "bookmark", false, "bookmark the entry")
	f.StringSliceVar(&createOpts.checks, "check", nil, "ID of a ticked check item (repeatable)")
	rootCmd.AddCommand(createCmd)
}

package cmd

import (
	"io"

	"github.com/chris-regnier/daybook/internal/editor"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

// updateOptions holds the flags that were actually set; nil means leave
// the field alone.
type updateOptions struct {
	title          *string
	date           *string
	weather        *string
	image          *string
	checks         *[]string
	clearDate      bool
	clearImage     bool
	clearChecklist bool
}

var (
	updateTitle, updateDate, updateWeather, updateImage string
	updateChecks                                        []string
	updateClearDate, updateClearImage, updateClearCheck bool
)

var updateCmd = &cobra.Command{
	Use:   "update <id> [body]",
	Short: "Update a diary entry",
	Long: `Change fields of an existing diary entry.

Only the fields you pass are touched, and a field is only written when its
value differs from what is stored. An empty title or body never blanks the
stored one. With no body and no flags, the entry opens in your editor.`,
	Example: `  daybook update a3kf9x2m "Rewritten body."
  daybook update a3kf9x2m --title Lake --weather rainy
  daybook update a3kf9x2m --clear-date
  echo "From stdin." | daybook update a3kf9x2m -
  daybook update a3kf9x2m`,
	Args:     cobra.RangeArgs(1, 2),
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		opts := updateOptions{
			clearDate:      updateClearDate,
			clearImage:     updateClearImage,
			clearChecklist: updateClearCheck,
		}
		if f.Changed("title") {
			opts.title = &updateTitle
		}
		if f.Changed("date") {
			opts.date = &updateDate
		}
		if f.Changed("weather") {
			opts.weather = &updateWeather
		}
		if f.Changed("image") {
			opts.image = &updateImage
		}
		if f.Changed("check") {
			opts.checks = &updateChecks
		}

		var body *string
		if len(args) == 2 {
			b, err := readBody(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			body = &b
		} else if opts.empty() {
			return runEditEntry(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		}
		return runUpdate(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, body)
	},
}

func (o updateOptions) empty() bool {
	return o.title == nil && o.date == nil && o.weather == nil && o.image == nil && o.checks == nil &&
		!o.clearDate && !o.clearImage && !o.clearChecklist
}

func (o updateOptions) changes() (entry.Changes, error) {
	var c entry.Changes
	if o.title != nil {
		c.Title = o.title
	}
	if o.date != nil {
		d, err := parseDay("date", *o.date)
		if err != nil {
			return c, err
		}
		c.Date = &d
	}
	c.ClearDate = o.clearDate
	if o.weather != nil {
		w, err := parseWeather(*o.weather)
		if err != nil {
			return c, err
		}
		c.Weather = &w
	}
	if o.image != nil {
		img, err := readImage(*o.image)
		if err != nil {
			return c, err
		}
		c.Image = img
	}
	c.ClearImage = o.clearImage
	switch {
	case o.clearChecklist:
		empty := []entry.CheckedItem{}
		c.Checklist = &empty
	case o.checks != nil:
		items, err := journ.Checked(*o.checks)
		if err != nil {
			return c, err
		}
		c.Checklist = &items
	}
	return c, nil
}

func runUpdate(w, errw io.Writer, id string, opts updateOptions, body *string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if _, err := journ.Get(id); err != nil {
		return lookup("entry", id, err)
	}
	c, err := opts.changes()
	if err != nil {
		return err
	}
	c.Body = body

	updated, err := journ.Update(id, c)
	if err != nil {
		return lookup("entry", id, err)
	}
	return reportUpdated(w, errw, updated)
}

// runEditEntry opens the entry's title and body in the editor and saves
// what comes back.
func runEditEntry(w, errw io.Writer, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	e, err := journ.Get(id)
	if err != nil {
		return lookup("entry", id, err)
	}

	doc, changed, err := editor.Edit(editor.ResolveEditor(appConfig.Editor), editor.Document{Title: e.Title, Body: e.Body})
	if err != nil {
		return err
	}
	if !changed {
		ui.FormatUnchanged(w, id)
		return nil
	}

	updated, err := journ.Update(id, entry.Changes{Title: &doc.Title, Body: &doc.Body})
	if err != nil {
		return lookup("entry", id, err)
	}
	return reportUpdated(w, errw, updated)
}

func reportUpdated(w, errw io.Writer, e entry.Entry) error {
	if jsonOutput {
		return ui.FormatJSON(w, e)
	}
	ui.FormatEntryUpdated(w, e)
	ui.FormatWarnings(errw, entry.Advise(e.Title, e.Body))
	return nil
}

func init() {
	f := updateCmd.Flags()
	f.StringVarP(&updateTitle, "title", "t", "", "new title")
	f.StringVarP(&updateDate, "date", "d", "", "new diary date (YYYY-MM-DD)")
	f.StringVarP(&updateWeather, "weather", "w", "", weatherHelp)
	f.StringVar(&updateImage, "image", "", "path to a new photo")
	f.StringSliceVar(&updateChecks, "check", nil, "replace the checklist with these check item IDs (repeatable)")
	f.BoolVar(&updateClearDate, "clear-date", false, "remove the diary date")
	f.BoolVar(&updateClearImage, "clear-image", false, "remove the photo")
	f.BoolVar(&updateClearCheck, "clear-checklist", false, "untick every check item")
	updateCmd.MarkFlagsMutuallyExclusive("date", "clear-date")
	updateCmd.MarkFlagsMutuallyExclusive("image", "clear-image")
	updateCmd.MarkFlagsMutuallyExclusive("check", "clear-checklist")
	rootCmd.AddCommand(updateCmd)
}

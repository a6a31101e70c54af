package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/config"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/query"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/chris-regnier/daybook/internal/storage/markdown"
	"github.com/chris-regnier/daybook/internal/storage/redis"
	"github.com/chris-regnier/daybook/internal/storage/sqlite"
	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile        string
	jsonOutput     bool
	storageBackend string
	appConfig      *config.Config

	// Set up lazily by openJournal.
	backend storage.Storage
	journ   *journal.Store
	queries *query.Engine
)

// noStorage marks commands that open the journal themselves, or never.
const noStorage = "no-storage"

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "A personal diary",
	Long: `daybook keeps a personal diary: dated entries with a title, a markdown
body, weather, a photo and a checklist, stored as markdown files, in SQLite
or in Redis.

Run without a subcommand to browse the diary month by month.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg

		if storageBackend != "" {
			appConfig.Storage = storageBackend
		}

		if err := logger.Init(logger.Config{
			Debug:   appConfig.Log.Debug,
			Level:   appConfig.Log.Level,
			DataDir: appConfig.DataDir,
		}); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		if cmd.Annotations[noStorage] != "" {
			return nil
		}
		return openJournal()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		month := journ.Now()
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			entries, err := queries.EntriesInMonth(month)
			if err != nil {
				return err
			}
			ui.FormatMonth(cmd.OutOrStdout(), month, entries)
			return nil
		}

		changes, cancel := journ.Subscribe()
		defer cancel()
		if err := journ.Watch(); err != nil {
			logger.Warn("could not watch storage for external edits", "err", err)
		}
		return ui.RunBrowser(queries, journ, ui.BrowserConfig{
			Theme:   ui.ResolveTheme(appConfig.Theme),
			Month:   month,
			Changes: changes,
		})
	},
}

// openBackend builds the storage backend named by cfg.Storage.
func openBackend(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case "markdown":
		s, err := markdown.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.Open(sqlite.Options{
			Driver: cfg.SQLite.Driver,
			Path:   filepath.Join(cfg.DataDir, "daybook.db"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := redis.New(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, invalidf("unknown storage backend %q (use markdown, sqlite or redis)", cfg.Storage)
	}
}

// openJournal opens the configured backend once and wraps it in the
// journal and query engine every command works through.
func openJournal() error {
	if journ != nil {
		return nil
	}
	b, err := openBackend(appConfig)
	if err != nil {
		return err
	}
	cal := calendar.Local()
	backend = b
	journ = journal.New(b, journal.WithCalendar(cal))
	queries = query.New(journ, cal)
	logger.Debug("opened journal", "storage", appConfig.Storage, "data_dir", appConfig.DataDir)
	return nil
}

func closeJournal() {
	if journ == nil {
		return
	}
	if err := journ.Close(); err != nil {
		logger.Warn("closing journal", "err", err)
	}
	journ, queries, backend = nil, nil, nil
}

// invalidError marks bad user input. It exits with status 1.
type invalidError struct {
	msg string
}

func (e *invalidError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &invalidError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error to the process exit status: 2 for persistence
// failures, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, storage.ErrStorage):
		return 2
	default:
		return 1
	}
}

// describe renders err for stderr, naming the ID for not-found errors.
func describe(err error) string {
	var nf *notFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("%s %s not found", nf.kind, nf.id)
	}
	return err.Error()
}

// notFoundError names what was looked up when the backend reports
// storage.ErrNotFound.
type notFoundError struct {
	kind string
	id   string
	err  error
}

func (e *notFoundError) Error() string { return fmt.Sprintf("%s %s: %v", e.kind, e.id, e.err) }
func (e *notFoundError) Unwrap() error { return e.err }

// lookup wraps not-found errors from fetching kind/id.
func lookup(kind, id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &notFoundError{kind: kind, id: id, err: err}
	}
	return err
}

// page writes content through the pager on a terminal.
func page(buf *bytes.Buffer) error {
	return ui.OutputOrPage(os.Stdout, buf.String(), ui.ResolveTheme(appConfig.Theme), jsonOutput)
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	defer closeJournal()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return exitCode(err)
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (markdown|sqlite|redis)")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// Package httpapi serves the journal as a JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/query"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Journal is the part of *journal.Store the API writes through.
type Journal interface {
	Create(d entry.Draft) (entry.Entry, error)
	Get(id string) (entry.Entry, error)
	Update(id string, c entry.Changes) (entry.Entry, error)
	Delete(id string) error
	Summary(now time.Time) (journal.Summary, error)
	Now() time.Time

	CreateCheckItem(title string) (entry.CheckItem, error)
	ListCheckItems() ([]entry.CheckItem, error)
	RenameCheckItem(id, title string) (entry.CheckItem, error)
	DeleteCheckItem(id string) error
	Checked(ids []string) ([]entry.CheckedItem, error)
}

// Queries is the part of *query.Engine the API reads through.
type Queries interface {
	EntriesInMonth(ref time.Time) ([]entry.Entry, error)
	EntriesInInterval(start, end time.Time) ([]entry.Entry, error)
	Bookmarked() ([]entry.Entry, error)
	All() ([]entry.Entry, error)
	Months() ([]query.MonthCount, error)
}

// Deps are the services behind the API. AfterWrite, when set, runs after
// every successful mutation.
type Deps struct {
	Journal    Journal
	Queries    Queries
	Calendar   calendar.Calendar
	AfterWrite func()
}

// API holds the handlers.
type API struct {
	deps Deps
}

// NewRouter returns the API mounted under /api.
func NewRouter(deps Deps) http.Handler {
	api := &API{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/entries", api.listEntries)
		r.Post("/entries", api.createEntry)
		r.Get("/entries/bookmarked", api.bookmarked)
		r.Get("/entries/{id}", api.getEntry)
		r.Patch("/entries/{id}", api.updateEntry)
		r.Delete("/entries/{id}", api.deleteEntry)

		r.Get("/months", api.months)
		r.Get("/months/{month}", api.month)
		r.Get("/stats", api.stats)

		r.Get("/checkitems", api.listCheckItems)
		r.Post("/checkitems", api.createCheckItem)
		r.Patch("/checkitems/{id}", api.renameCheckItem)
		r.Delete("/checkitems/{id}", api.deleteCheckItem)
	})
	return r
}

// requestLogger logs one line per request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// Serve runs the API on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/go-chi/chi/v5"
)

// badRequest marks an error as the caller's fault.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func invalid(format string, args ...any) error {
	return badRequest{fmt.Errorf(format, args...)}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var bad badRequest
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrStorage):
		logger.Error("storage failure", "err", err)
	default:
		logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("invalid JSON: %v", err)
	}
	return nil
}

func (a *API) wrote() {
	if a.deps.AfterWrite != nil {
		a.deps.AfterWrite()
	}
}

func pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := entry.ValidateID(id); err != nil {
		return "", badRequest{err}
	}
	return id, nil
}

func (a *API) parseDate(s string) (time.Time, error) {
	d, err := a.deps.Calendar.ParseDate(s)
	if err != nil {
		return time.Time{}, invalid("invalid date %q (use YYYY-MM-DD)", s)
	}
	return d, nil
}

// entries writes a list, never as JSON null.
func entries(w http.ResponseWriter, list []entry.Entry) {
	if list == nil {
		list = []entry.Entry{}
	}
	writeJSON(w, http.StatusOK, list)
}

// listEntries serves GET /api/entries. Filters: month=YYYY-MM,
// from=YYYY-MM-DD&to=YYYY-MM-DD (to exclusive), bookmarked=true, limit=N.
// Without a filter every entry is returned, newest creation first.
func (a *API) listEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		list []entry.Entry
		err  error
	)
	switch {
	case q.Get("bookmarked") == "true":
		list, err = a.deps.Queries.Bookmarked()
	case q.Get("month") != "":
		var month time.Time
		month, err = a.deps.Calendar.ParseMonth(q.Get("month"))
		if err != nil {
			err = invalid("invalid month %q (use YYYY-MM)", q.Get("month"))
			break
		}
		list, err = a.deps.Queries.EntriesInMonth(month)
	case q.Get("from") != "" || q.Get("to") != "":
		var from, to time.Time
		if from, err = a.parseDate(q.Get("from")); err != nil {
			break
		}
		if to, err = a.parseDate(q.Get("to")); err != nil {
			break
		}
		list, err = a.deps.Queries.EntriesInInterval(from, to)
	default:
		list, err = a.deps.Queries.All()
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, invalid("invalid limit %q", s))
			return
		}
		if n > 0 && len(list) > n {
			list = list[:n]
		}
	}
	entries(w, list)
}

func (a *API) bookmarked(w http.ResponseWriter, r *http.Request) {
	list, err := a.deps.Queries.Bookmarked()
	if err != nil {
		writeError(w, err)
		return
	}
	entries(w, list)
}

func (a *API) month(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "month")
	month, err := a.deps.Calendar.ParseMonth(s)
	if err != nil {
		writeError(w, invalid("invalid month %q (use YYYY-MM)", s))
		return
	}
	list, err := a.deps.Queries.EntriesInMonth(month)
	if err != nil {
		writeError(w, err)
		return
	}
	entries(w, list)
}

type monthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

func (a *API) months(w http.ResponseWriter, r *http.Request) {
	counts, err := a.deps.Queries.Months()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]monthCount, len(counts))
	for i, c := range counts {
		out[i] = monthCount{Month: c.Month.Format("2006-01"), Count: c.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	sum, err := a.deps.Journal.Summary(a.deps.Journal.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (a *API) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := a.deps.Journal.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// createRequest is the body of POST /api/entries. Image is base64.
type createRequest struct {
	Date         string   `json:"date"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Bookmarked   bool     `json:"bookmarked"`
	Weather      string   `json:"weather"`
	Image        []byte   `json:"image"`
	CheckItemIDs []string `json:"check_item_ids"`
}

type createResponse struct {
	entry.Entry
	Warnings []string `json:"warnings,omitempty"`
}

func (a *API) checked(ids []string) ([]entry.CheckedItem, error) {
	items, err := a.deps.Journal.Checked(ids)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, badRequest{err}
	}
	return items, err
}

func (a *API) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	d := entry.Draft{Title: req.Title, Body: req.Body, Bookmarked: req.Bookmarked, Image: req.Image}
	if req.Date != "" {
		date, err := a.parseDate(req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		d.Date = &date
	}
	weather, err := entry.ParseWeather(req.Weather)
	if err != nil {
		writeError(w, badRequest{err})
		return
	}
	d.Weather = weather
	if len(req.CheckItemIDs) > 0 {
		if d.Checklist, err = a.checked(req.CheckItemIDs); err != nil {
			writeError(w, err)
			return
		}
	}

	e, err := a.deps.Journal.Create(d)
	if err != nil {
		writeError(w, err)
		return
	}
	a.wrote()
	writeJSON(w, http.StatusCreated, createResponse{Entry: e, Warnings: entry.Advise(e.Title, e.Body)})
}

// updateRequest is the body of PATCH /api/entries/{id}. Absent fields are
// left alone; an empty date clears it.
type updateRequest struct {
	Date         *string   `json:"date"`
	Title        *string   `json:"title"`
	Body         *string   `json:"body"`
	Bookmarked   *bool     `json:"bookmarked"`
	Weather      *string   `json:"weather"`
	Image        []byte    `json:"image"`
	ClearImage   bool      `json:"clear_image"`
	CheckItemIDs *[]string `json:"check_item_ids"`
}

func (a *API) changes(req updateRequest) (entry.Changes, error) {
	c := entry.Changes{
		Title:      req.Title,
		Body:       req.Body,
		Bookmarked: req.Bookmarked,
		Image:      req.Image,
		ClearImage: req.ClearImage,
	}
	if req.Date != nil {
		if *req.Date == "" {
			c.ClearDate = true
		} else {
			d, err := a.parseDate(*req.Date)
			if err != nil {
				return entry.Changes{}, err
			}
			c.Date = &d
		}
	}
	if req.Weather != nil {
		wt, err := entry.ParseWeather(*req.Weather)
		if err != nil {
			return entry.Changes{}, badRequest{err}
		}
		c.Weather = &wt
	}
	if req.CheckItemIDs != nil {
		items, err := a.checked(*req.CheckItemIDs)
		if err != nil {
			return entry.Changes{}, err
		}
		c.Checklist = &items
	}
	return c, nil
}

func (a *API) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := a.changes(req)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := a.deps.Journal.Update(id, c)
	if err != nil {
		writeError(w, err)
		return
	}
	a.wrote()
	writeJSON(w, http.StatusOK, e)
}

func (a *API) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.deps.Journal.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	a.wrote()
	w.WriteHeader(http.StatusNoContent)
}

type checkItemRequest struct {
	Title string `json:"title"`
}

func (a *API) listCheckItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.deps.Journal.ListCheckItems()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []entry.CheckItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) createCheckItem(w http.ResponseWriter, r *http.Request) {
	var req checkItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, invalid("check item title must not be empty"))
		return
	}
	c, err := a.deps.Journal.CreateCheckItem(req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	a.wrote()
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) renameCheckItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req checkItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, invalid("check item title must not be empty"))
		return
	}
	c, err := a.deps.Journal.RenameCheckItem(id, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	a.wrote()
	writeJSON(w, http.StatusOK, c)
}

func (a *API) deleteCheckItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.deps.Journal.DeleteCheckItem(id); err != nil {
		writeError(w, err)
		return
	}
	a.wrote()
	w.WriteHeader(http.StatusNoContent)
}

// Package journal is the write path of the diary. A Store owns one storage
// backend, stamps timestamps, applies the update policy, serializes
// mutations, and tells subscribers when anything changed.
package journal

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/chris-regnier/daybook/internal/streak"
)

// ChangeKind says what happened to the journal.
type ChangeKind int

const (
	Created ChangeKind = iota + 1
	Updated
	Deleted
	// External is reported when the backend changed outside this Store,
	// for example a markdown file edited by hand.
	External
)

func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	case External:
		return "external"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change describes one mutation. ID is empty for External changes.
type Change struct {
	Kind ChangeKind
	ID   string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCalendar sets the calendar used for day boundaries.
func WithCalendar(cal calendar.Calendar) Option {
	return func(s *Store) { s.cal = cal }
}

// Store is the single owner of a storage backend.
type Store struct {
	backend storage.Storage
	now     func() time.Time
	cal     calendar.Calendar

	mu sync.Mutex // serializes mutations

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int
	closed  bool

	stopWatch func() error
}

// New wraps backend. The Store takes ownership and closes it on Close.
func New(backend storage.Storage, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		cal:     calendar.Local(),
		subs:    make(map[int]chan Change),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }

// Calendar returns the store's calendar.
func (s *Store) Calendar() calendar.Calendar { return s.cal }

// Create saves a new entry built from d.
func (s *Store) Create(d entry.Draft) (entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.Title, d.Body = validText(d.Title), validText(d.Body)
	d.Weather.Symbol, d.Weather.Label = validText(d.Weather.Symbol), validText(d.Weather.Label)
	e, err := entry.New(d, s.now())
	if err != nil {
		return entry.Entry{}, err
	}
	if err := s.backend.Create(e); err != nil {
		return entry.Entry{}, err
	}

	logger.Debug("created entry", "id", e.ID, "title", e.Title)
	s.notify(Change{Kind: Created, ID: e.ID})
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (entry.Entry, error) {
	return s.backend.Get(id)
}

// List returns entries matching q.
func (s *Store) List(q storage.Query) ([]entry.Entry, error) {
	return s.backend.List(q)
}

// Count returns the number of entries.
func (s *Store) Count() (int, error) {
	return s.backend.Count()
}

// Update applies c to the stored entry. Only fields that differ are
// written, empty title and body values are ignored, and UpdatedAt is
// bumped even when nothing else changed. On failure the stored entry is
// left as it was.
func (s *Store) Update(id string, c entry.Changes) (entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.backend.Get(id)
	if err != nil {
		return entry.Entry{}, err
	}
	changed := e.Apply(cleanChanges(c), s.now())
	if err := s.backend.Update(e); err != nil {
		return entry.Entry{}, err
	}

	logger.Debug("updated entry", "id", id, "fields", strings.Join(changed, ","))
	s.notify(Change{Kind: Updated, ID: id})
	return e, nil
}

// SetBookmarked sets or clears the bookmark flag.
func (s *Store) SetBookmarked(id string, bookmarked bool) (entry.Entry, error) {
	return s.Update(id, entry.Changes{Bookmarked: &bookmarked})
}

// Delete removes an entry permanently. It returns once the backend has
// flushed the removal.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(id); err != nil {
		return err
	}
	logger.Debug("deleted entry", "id", id)
	s.notify(Change{Kind: Deleted, ID: id})
	return nil
}

// CreateCheckItem adds a reusable checklist item.
func (s *Store) CreateCheckItem(title string) (entry.CheckItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := entry.NewCheckItem(validText(title), s.now())
	if err != nil {
		return entry.CheckItem{}, err
	}
	if err := s.backend.CreateCheckItem(c); err != nil {
		return entry.CheckItem{}, err
	}
	logger.Debug("created check item", "id", c.ID, "title", c.Title)
	return c, nil
}

// GetCheckItem returns one check item.
func (s *Store) GetCheckItem(id string) (entry.CheckItem, error) {
	return s.backend.GetCheckItem(id)
}

// ListCheckItems returns all check items ordered by title.
func (s *Store) ListCheckItems() ([]entry.CheckItem, error) {
	return s.backend.ListCheckItems()
}

// RenameCheckItem changes a check item's title. Entries that already
// ticked the item keep the title they were saved with.
func (s *Store) RenameCheckItem(id, title string) (entry.CheckItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(validText(title))
	if title == "" {
		return entry.CheckItem{}, fmt.Errorf("check item title must not be empty")
	}
	c, err := s.backend.GetCheckItem(id)
	if err != nil {
		return entry.CheckItem{}, err
	}
	c.Title = title
	c.UpdatedAt = s.now().UTC()
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	if err := s.backend.UpdateCheckItem(c); err != nil {
		return entry.CheckItem{}, err
	}
	logger.Debug("renamed check item", "id", id, "title", title)
	return c, nil
}

// DeleteCheckItem removes a check item.
func (s *Store) DeleteCheckItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.DeleteCheckItem(id); err != nil {
		return err
	}
	logger.Debug("deleted check item", "id", id)
	return nil
}

// validText replaces invalid UTF-8 so text reads back from every backend
// exactly as it was stored.
func validText(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

func cleanChanges(c entry.Changes) entry.Changes {
	if c.Title != nil {
		t := validText(*c.Title)
		c.Title = &t
	}
	if c.Body != nil {
		b := validText(*c.Body)
		c.Body = &b
	}
	if c.Weather != nil {
		w := *c.Weather
		w.Symbol, w.Label = validText(w.Symbol), validText(w.Label)
		c.Weather = &w
	}
	return c
}

// Checked resolves check item IDs into the snapshots stored on an entry.
// A malformed ID is reported as not found before any backend lookup.
func (s *Store) Checked(ids []string) ([]entry.CheckedItem, error) {
	items := make([]entry.CheckedItem, 0, len(ids))
	for _, id := range ids {
		if err := entry.ValidateID(id); err != nil {
			return nil, fmt.Errorf("check item %q: %w", id, storage.ErrNotFound)
		}
		c, err := s.backend.GetCheckItem(id)
		if err != nil {
			return nil, fmt.Errorf("check item %s: %w", id, err)
		}
		items = append(items, entry.CheckedItem{ItemID: c.ID, Title: c.Title})
	}
	return items, nil
}

// Subscribe returns a channel that receives a Change after every mutation.
// The channel holds one pending change; a subscriber that falls behind
// sees the latest state on its next read rather than every event. Call
// cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan Change, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Watch forwards external changes from backends that can detect them.
// It is a no-op for backends that cannot.
func (s *Store) Watch() error {
	w, ok := s.backend.(storage.Watcher)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopWatch != nil {
		return nil
	}
	stop, err := w.Watch(func() { s.notify(Change{Kind: External}) })
	if err != nil {
		return err
	}
	s.stopWatch = stop
	return nil
}

// Summary is the at-a-glance state shown in the shell prompt and by the
// stats endpoints.
type Summary struct {
	Count        int  `json:"count"`
	Streak       int  `json:"streak"`
	WrittenToday bool `json:"written_today"`
}

// Summary computes the entry count, streak, and whether an entry was
// created today, all as of now.
func (s *Store) Summary(now time.Time) (Summary, error) {
	entries, err := s.backend.List(storage.Query{OrderBy: storage.OrderByCreatedAt})
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Count:  len(entries),
		Streak: streak.ConsecutiveDays(entries, now, s.cal),
	}
	if len(entries) > 0 {
		sum.WrittenToday = s.cal.SameDay(entries[0].CreatedAt, now)
	}
	return sum, nil
}

// Streak returns the consecutive-day streak as of now.
func (s *Store) Streak(now time.Time) (int, error) {
	return streak.NewCalculator(s.backend, s.cal).ConsecutiveDays(now)
}

// Close stops watching, closes every subscription, and closes the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	var watchErr error
	if s.stopWatch != nil {
		watchErr = s.stopWatch()
		s.stopWatch = nil
	}
	s.mu.Unlock()

	s.subMu.Lock()
	if !s.closed {
		s.closed = true
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
	}
	s.subMu.Unlock()

	if err := s.backend.Close(); err != nil {
		return err
	}
	return watchErr
}

package markdown

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
)

// Store implements storage.Storage using Markdown files with YAML front-matter.
// Entries live at entries/YYYY/MM/DD/<id>.md, keyed by creation date so a
// file never moves once written.
type Store struct {
	baseDir  string // e.g. ~/.daybook/entries/
	itemsDir string // e.g. ~/.daybook/checkitems/

	// mu gives readers a consistent view while a write is in flight.
	mu sync.RWMutex
}

// New creates a new Markdown file storage backend.
func New(dataDir string) (*Store, error) {
	entriesDir := filepath.Join(dataDir, "entries")
	if err := os.MkdirAll(entriesDir, 0755); err != nil {
		return nil, storage.Fail("creating entries directory", err)
	}
	itemsDir := filepath.Join(dataDir, "checkitems")
	if err := os.MkdirAll(itemsDir, 0755); err != nil {
		return nil, storage.Fail("creating checkitems directory", err)
	}
	return &Store{baseDir: entriesDir, itemsDir: itemsDir}, nil
}

// Close is a no-op for the Markdown backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) entryPath(e entry.Entry) string {
	t := e.CreatedAt.UTC()
	return filepath.Join(s.baseDir, t.Format("2006"), t.Format("01"), t.Format("02"), e.ID+".md")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func (s *Store) marshal(e entry.Entry) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", e.ID)
	if e.Date != nil {
		fmt.Fprintf(&b, "date: %s\n", formatTime(*e.Date))
	}
	fmt.Fprintf(&b, "title: %s\n", strconv.Quote(e.Title))
	fmt.Fprintf(&b, "bookmarked: %t\n", e.Bookmarked)
	if !e.Weather.IsZero() {
		b.WriteString("weather:\n")
		fmt.Fprintf(&b, "  kind: %s\n", e.Weather.Kind)
		if e.Weather.Symbol != "" {
			fmt.Fprintf(&b, "  symbol: %s\n", strconv.Quote(e.Weather.Symbol))
		}
		if e.Weather.Label != "" {
			fmt.Fprintf(&b, "  label: %s\n", strconv.Quote(e.Weather.Label))
		}
	}
	if len(e.Checklist) > 0 {
		b.WriteString("checklist:\n")
		for _, item := range e.Checklist {
			fmt.Fprintf(&b, "  - item_id: %s\n", item.ItemID)
			fmt.Fprintf(&b, "    title: %s\n", strconv.Quote(item.Title))
		}
	}
	if len(e.Image) > 0 {
		fmt.Fprintf(&b, "image: %q\n", base64.StdEncoding.EncodeToString(e.Image))
	}
	fmt.Fprintf(&b, "created_at: %s\n", formatTime(e.CreatedAt))
	fmt.Fprintf(&b, "updated_at: %s\n", formatTime(e.UpdatedAt))
	b.WriteString("---\n\n")
	b.WriteString(e.Body)
	return []byte(b.String())
}

type fmWeather struct {
	Kind   string `yaml:"kind"`
	Symbol string `yaml:"symbol"`
	Label  string `yaml:"label"`
}

type fmCheckedItem struct {
	ItemID string `yaml:"item_id"`
	Title  string `yaml:"title"`
}

type frontMatter struct {
	ID         string          `yaml:"id"`
	Date       string          `yaml:"date"`
	Title      string          `yaml:"title"`
	Bookmarked bool            `yaml:"bookmarked"`
	Weather    fmWeather       `yaml:"weather"`
	Checklist  []fmCheckedItem `yaml:"checklist"`
	Image      string          `yaml:"image"`
	CreatedAt  string          `yaml:"created_at"`
	UpdatedAt  string          `yaml:"updated_at"`
}

func (s *Store) unmarshal(data []byte) (entry.Entry, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(strings.NewReader(string(data)), &fm)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("parsing front-matter: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fm.CreatedAt)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fm.UpdatedAt)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("parsing updated_at: %w", err)
	}

	e := entry.Entry{
		ID:         fm.ID,
		Title:      fm.Title,
		Body:       strings.TrimPrefix(string(body), "\n"),
		Bookmarked: fm.Bookmarked,
		Weather: entry.Weather{
			Kind:   entry.WeatherKind(fm.Weather.Kind),
			Symbol: fm.Weather.Symbol,
			Label:  fm.Weather.Label,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if fm.Date != "" {
		d, err := time.Parse(time.RFC3339Nano, fm.Date)
		if err != nil {
			return entry.Entry{}, fmt.Errorf("parsing date: %w", err)
		}
		e.Date = &d
	}
	for _, item := range fm.Checklist {
		e.Checklist = append(e.Checklist, entry.CheckedItem{ItemID: item.ItemID, Title: item.Title})
	}
	if fm.Image != "" {
		e.Image, err = base64.StdEncoding.DecodeString(fm.Image)
		if err != nil {
			return entry.Entry{}, fmt.Errorf("decoding image: %w", err)
		}
	}
	return e, nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
func (s *Store) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return storage.Fail("creating directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return storage.Fail("creating temp file", err)
	}
	tmpName := tmp.Name()

	// Lock the temp file during write
	if err := syscall.Flock(int(tmp.Fd()), syscall.LOCK_EX); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storage.Fail("acquiring lock", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storage.Fail("writing temp file", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storage.Fail("syncing temp file", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return storage.Fail("closing temp file", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return storage.Fail("renaming file", err)
	}

	return syncDir(dir)
}

// syncDir flushes directory metadata so a rename or removal survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return storage.Fail("opening directory", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
		return storage.Fail("syncing directory", err)
	}
	return nil
}

// Create persists a new diary entry as a Markdown file.
func (s *Store) Create(e entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findEntryPath(e.ID); err == nil {
		return fmt.Errorf("%w: entry %s already exists", storage.ErrConflict, e.ID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return s.atomicWrite(s.entryPath(e), s.marshal(e))
}

// Get retrieves an entry by ID by scanning the directory tree.
func (s *Store) Get(id string) (entry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *Store) get(id string) (entry.Entry, error) {
	path, err := s.findEntryPath(id)
	if err != nil {
		return entry.Entry{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entry.Entry{}, storage.Fail("reading file", err)
	}

	e, err := s.unmarshal(data)
	if err != nil {
		return entry.Entry{}, storage.Fail("decoding "+path, err)
	}
	return e, nil
}

// findEntryPath locates the file for a given entry ID.
func (s *Store) findEntryPath(id string) (string, error) {
	var found string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == id+".md" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", storage.Fail("scanning entries", err)
	}
	if found == "" {
		return "", storage.ErrNotFound
	}
	return found, nil
}

// loadAll reads every entry file. Files that fail to parse are skipped with
// a warning; files that cannot be read at all fail the call.
func (s *Store) loadAll() ([]entry.Entry, error) {
	var entries []entry.Entry

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		e, err := s.unmarshal(data)
		if err != nil {
			logger.Warn("skipping malformed entry file", "path", path, "error", err)
			return nil
		}

		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, storage.Fail("listing entries", err)
	}
	return entries, nil
}

// List returns entries matching the given query.
func (s *Store) List(q storage.Query) ([]entry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	return q.Apply(entries), nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.loadAll()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Update replaces an existing entry's file.
func (s *Store) Update(e entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.findEntryPath(e.ID)
	if err != nil {
		return err
	}
	return s.atomicWrite(path, s.marshal(e))
}

// Delete removes an entry permanently.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.findEntryPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return storage.Fail("deleting file", err)
	}

	return syncDir(filepath.Dir(path))
}

// --- Check item methods ---

type checkItemFrontMatter struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	CreatedAt string `yaml:"created_at"`
	UpdatedAt string `yaml:"updated_at"`
}

func (s *Store) marshalCheckItem(c entry.CheckItem) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", c.ID)
	fmt.Fprintf(&b, "title: %s\n", strconv.Quote(c.Title))
	fmt.Fprintf(&b, "created_at: %s\n", formatTime(c.CreatedAt))
	fmt.Fprintf(&b, "updated_at: %s\n", formatTime(c.UpdatedAt))
	b.WriteString("---\n")
	return []byte(b.String())
}

func (s *Store) unmarshalCheckItem(data []byte) (entry.CheckItem, error) {
	var fm checkItemFrontMatter
	if _, err := frontmatter.Parse(strings.NewReader(string(data)), &fm); err != nil {
		return entry.CheckItem{}, fmt.Errorf("parsing check item front-matter: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fm.CreatedAt)
	if err != nil {
		return entry.CheckItem{}, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fm.UpdatedAt)
	if err != nil {
		return entry.CheckItem{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return entry.CheckItem{ID: fm.ID, Title: fm.Title, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}

// checkItemPath maps an ID to its file. IDs that are not well-formed never
// name a stored item, so they report ErrNotFound without touching disk.
func (s *Store) checkItemPath(id string) (string, error) {
	if err := entry.ValidateID(id); err != nil {
		return "", fmt.Errorf("check item %q: %w", id, storage.ErrNotFound)
	}
	return filepath.Join(s.itemsDir, id+".md"), nil
}

// CreateCheckItem persists a new check item.
func (s *Store) CreateCheckItem(c entry.CheckItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.checkItemPath(c.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: check item %s already exists", storage.ErrConflict, c.ID)
	}
	return s.atomicWrite(path, s.marshalCheckItem(c))
}

// GetCheckItem retrieves a check item by ID.
func (s *Store) GetCheckItem(id string) (entry.CheckItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.checkItemPath(id)
	if err != nil {
		return entry.CheckItem{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entry.CheckItem{}, storage.ErrNotFound
		}
		return entry.CheckItem{}, storage.Fail("reading check item", err)
	}
	c, err := s.unmarshalCheckItem(data)
	if err != nil {
		return entry.CheckItem{}, storage.Fail("decoding check item", err)
	}
	return c, nil
}

// ListCheckItems returns all check items sorted by title.
func (s *Store) ListCheckItems() ([]entry.CheckItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	des, err := os.ReadDir(s.itemsDir)
	if err != nil {
		return nil, storage.Fail("reading checkitems dir", err)
	}
	items := []entry.CheckItem{}
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.itemsDir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, storage.Fail("reading check item", err)
		}
		c, err := s.unmarshalCheckItem(data)
		if err != nil {
			logger.Warn("skipping malformed check item file", "path", path, "error", err)
			continue
		}
		items = append(items, c)
	}
	entry.SortCheckItems(items)
	return items, nil
}

// UpdateCheckItem replaces an existing check item.
func (s *Store) UpdateCheckItem(c entry.CheckItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.checkItemPath(c.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return storage.Fail("checking check item", err)
	}
	return s.atomicWrite(path, s.marshalCheckItem(c))
}

// DeleteCheckItem removes a check item by ID.
func (s *Store) DeleteCheckItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.checkItemPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return storage.Fail("deleting check item", err)
	}
	return syncDir(s.itemsDir)
}

package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
)

// Options configures how the database is opened.
type Options struct {
	// Driver is DriverLibSQL (default) or DriverSQLite.
	Driver string
	// Path is the database file. Ignored when DSN is set.
	Path string
	// DSN overrides the connection string built from Path, for example
	// ":memory:" in tests.
	DSN string
}

// Store implements storage.Storage on SQLite, through either the libSQL
// or the pure-Go driver.
type Store struct {
	db *sql.DB
}

var _ storage.Storage = (*Store)(nil)

// New opens daybook.db under dataDir with the libSQL driver.
func New(dataDir string) (*Store, error) {
	return Open(Options{Driver: DriverLibSQL, Path: filepath.Join(dataDir, "daybook.db")})
}

// Open opens (creating if needed) and migrates a SQLite database.
func Open(opts Options) (*Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverLibSQL
	}
	if driver != DriverLibSQL && driver != DriverSQLite {
		return nil, storage.Fail("opening database", fmt.Errorf("unknown sqlite driver %q", driver))
	}

	dsn := opts.DSN
	if dsn == "" {
		if opts.Path == "" {
			return nil, storage.Fail("opening database", errors.New("no database path"))
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, storage.Fail("creating data directory", err)
		}
		dsn = "file:" + opts.Path
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, storage.Fail("opening database", err)
	}
	// One connection gives every reader a consistent view and keeps
	// in-memory databases alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, storage.Fail("enabling WAL mode", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, storage.Fail("setting busy timeout", err)
	}

	if _, err := migrate(db); err != nil {
		db.Close()
		return nil, storage.Fail("migrating schema", err)
	}

	logger.Debug("opened sqlite store", "driver", driver, "dsn", dsn)
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const entryColumns = `id, date_ns, title, body, bookmarked, weather_kind, weather_symbol,
	weather_label, image, created_ns, updated_ns`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (entry.Entry, error) {
	var (
		e          entry.Entry
		date       sql.NullInt64
		bookmarked int
		kind       string
		created    int64
		updated    int64
	)
	if err := row.Scan(&e.ID, &date, &e.Title, &e.Body, &bookmarked, &kind,
		&e.Weather.Symbol, &e.Weather.Label, &e.Image, &created, &updated); err != nil {
		return entry.Entry{}, err
	}
	if date.Valid {
		d := time.Unix(0, date.Int64).UTC()
		e.Date = &d
	}
	e.Bookmarked = bookmarked != 0
	e.Weather.Kind = entry.WeatherKind(kind)
	if len(e.Image) == 0 {
		e.Image = nil
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	e.UpdatedAt = time.Unix(0, updated).UTC()
	return e, nil
}

func entryArgs(e entry.Entry) []any {
	var date any
	if e.Date != nil {
		date = e.Date.UnixNano()
	}
	var image any
	if len(e.Image) > 0 {
		image = e.Image
	}
	return []any{
		e.ID, date, e.Title, e.Body, boolInt(e.Bookmarked),
		string(e.Weather.Kind), e.Weather.Symbol, e.Weather.Label, image,
		e.CreatedAt.UnixNano(), e.UpdatedAt.UnixNano(),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func writeChecklist(tx *sql.Tx, id string, items []entry.CheckedItem) error {
	if _, err := tx.Exec("DELETE FROM entry_checklist WHERE entry_id = ?", id); err != nil {
		return err
	}
	for i, item := range items {
		if _, err := tx.Exec(
			"INSERT INTO entry_checklist (entry_id, position, item_id, title) VALUES (?, ?, ?, ?)",
			id, i, item.ItemID, item.Title,
		); err != nil {
			return err
		}
	}
	return nil
}

// loadChecklists fills in the checklist of every entry in place.
func loadChecklists(tx *sql.Tx, entries []entry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.ID] = i
	}

	const chunk = 500
	for start := 0; start < len(entries); start += chunk {
		end := min(start+chunk, len(entries))
		args := make([]any, 0, end-start)
		for _, e := range entries[start:end] {
			args = append(args, e.ID)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

		rows, err := tx.Query(
			"SELECT entry_id, item_id, title FROM entry_checklist WHERE entry_id IN ("+placeholders+") ORDER BY entry_id, position",
			args...,
		)
		if err != nil {
			return err
		}
		for rows.Next() {
			var entryID string
			var item entry.CheckedItem
			if err := rows.Scan(&entryID, &item.ItemID, &item.Title); err != nil {
				rows.Close()
				return err
			}
			i := index[entryID]
			entries[i].Checklist = append(entries[i].Checklist, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

// Create persists a new diary entry.
func (s *Store) Create(e entry.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.Fail("beginning transaction", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM entries WHERE id = ?", e.ID).Scan(&exists); err != nil {
		return storage.Fail("checking entry", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: entry %s already exists", storage.ErrConflict, e.ID)
	}

	if _, err := tx.Exec(
		"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entryArgs(e)...,
	); err != nil {
		return storage.Fail("inserting entry", err)
	}
	if err := writeChecklist(tx, e.ID, e.Checklist); err != nil {
		return storage.Fail("inserting checklist", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Fail("committing", err)
	}
	return nil
}

// Get retrieves an entry by ID.
func (s *Store) Get(id string) (entry.Entry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return entry.Entry{}, storage.Fail("beginning transaction", err)
	}
	defer tx.Rollback()

	e, err := scanEntry(tx.QueryRow("SELECT "+entryColumns+" FROM entries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, storage.ErrNotFound
	}
	if err != nil {
		return entry.Entry{}, storage.Fail("querying entry", err)
	}

	entries := []entry.Entry{e}
	if err := loadChecklists(tx, entries); err != nil {
		return entry.Entry{}, storage.Fail("querying checklist", err)
	}
	return entries[0], nil
}

// buildQuery translates q into SQL. Date filters exclude undated rows.
func buildQuery(q storage.Query) (string, []any) {
	query := "SELECT " + entryColumns + " FROM entries"
	var where []string
	var args []any

	if q.Bookmarked {
		where = append(where, "bookmarked = 1")
	}
	if q.HasDateFilter() {
		where = append(where, "date_ns IS NOT NULL")
		if q.DateFrom != nil {
			where = append(where, "date_ns >= ?")
			args = append(args, q.DateFrom.UnixNano())
		}
		if q.DateTo != nil {
			where = append(where, "date_ns < ?")
			args = append(args, q.DateTo.UnixNano())
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch q.OrderBy {
	case storage.OrderByCreatedAt:
		query += " ORDER BY created_ns DESC, id DESC"
	default:
		query += " ORDER BY date_ns IS NULL, date_ns DESC, created_ns DESC, id DESC"
	}

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return query, args
}

// List returns entries matching q.
func (s *Store) List(q storage.Query) ([]entry.Entry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, storage.Fail("beginning transaction", err)
	}
	defer tx.Rollback()

	query, args := buildQuery(q)
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, storage.Fail("listing entries", err)
	}

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, storage.Fail("scanning row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, storage.Fail("listing entries", err)
	}
	rows.Close()

	if err := loadChecklists(tx, entries); err != nil {
		return nil, storage.Fail("querying checklists", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, storage.Fail("counting entries", err)
	}
	return n, nil
}

// Update replaces every column of an existing entry and its checklist.
func (s *Store) Update(e entry.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.Fail("beginning transaction", err)
	}
	defer tx.Rollback()

	args := entryArgs(e)
	result, err := tx.Exec(
		`UPDATE entries SET date_ns = ?, title = ?, body = ?, bookmarked = ?,
			weather_kind = ?, weather_symbol = ?, weather_label = ?, image = ?,
			created_ns = ?, updated_ns = ?
		WHERE id = ?`,
		append(args[1:], e.ID)...,
	)
	if err != nil {
		return storage.Fail("updating entry", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storage.Fail("checking rows affected", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if err := writeChecklist(tx, e.ID, e.Checklist); err != nil {
		return storage.Fail("updating checklist", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Fail("committing", err)
	}
	return nil
}

// Delete removes an entry and its checklist permanently.
func (s *Store) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.Fail("beginning transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return storage.Fail("deleting entry", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storage.Fail("checking rows affected", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	if _, err := tx.Exec("DELETE FROM entry_checklist WHERE entry_id = ?", id); err != nil {
		return storage.Fail("deleting checklist", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Fail("committing", err)
	}
	return nil
}

// CreateCheckItem persists a new check item.
func (s *Store) CreateCheckItem(c entry.CheckItem) error {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM check_items WHERE id = ?", c.ID).Scan(&exists); err != nil {
		return storage.Fail("checking check item", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: check item %s already exists", storage.ErrConflict, c.ID)
	}
	if _, err := s.db.Exec(
		"INSERT INTO check_items (id, title, created_ns, updated_ns) VALUES (?, ?, ?, ?)",
		c.ID, c.Title, c.CreatedAt.UnixNano(), c.UpdatedAt.UnixNano(),
	); err != nil {
		return storage.Fail("inserting check item", err)
	}
	return nil
}

func scanCheckItem(row scanner) (entry.CheckItem, error) {
	var c entry.CheckItem
	var created, updated int64
	if err := row.Scan(&c.ID, &c.Title, &created, &updated); err != nil {
		return entry.CheckItem{}, err
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	c.UpdatedAt = time.Unix(0, updated).UTC()
	return c, nil
}

// GetCheckItem retrieves a check item by ID.
func (s *Store) GetCheckItem(id string) (entry.CheckItem, error) {
	c, err := scanCheckItem(s.db.QueryRow(
		"SELECT id, title, created_ns, updated_ns FROM check_items WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return entry.CheckItem{}, storage.ErrNotFound
	}
	if err != nil {
		return entry.CheckItem{}, storage.Fail("querying check item", err)
	}
	return c, nil
}

// ListCheckItems returns every check item ordered by title.
func (s *Store) ListCheckItems() ([]entry.CheckItem, error) {
	rows, err := s.db.Query("SELECT id, title, created_ns, updated_ns FROM check_items ORDER BY title, id")
	if err != nil {
		return nil, storage.Fail("listing check items", err)
	}
	defer rows.Close()

	items := []entry.CheckItem{}
	for rows.Next() {
		c, err := scanCheckItem(rows)
		if err != nil {
			return nil, storage.Fail("scanning check item", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Fail("listing check items", err)
	}
	return items, nil
}

// UpdateCheckItem replaces an existing check item.
func (s *Store) UpdateCheckItem(c entry.CheckItem) error {
	result, err := s.db.Exec(
		"UPDATE check_items SET title = ?, created_ns = ?, updated_ns = ? WHERE id = ?",
		c.Title, c.CreatedAt.UnixNano(), c.UpdatedAt.UnixNano(), c.ID,
	)
	if err != nil {
		return storage.Fail("updating check item", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storage.Fail("checking rows affected", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCheckItem removes a check item. Entries keep their snapshot.
func (s *Store) DeleteCheckItem(id string) error {
	result, err := s.db.Exec("DELETE FROM check_items WHERE id = ?", id)
	if err != nil {
		return storage.Fail("deleting check item", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storage.Fail("checking rows affected", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}


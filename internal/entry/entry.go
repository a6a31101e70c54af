package entry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8
)

var idPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

// CheckedItem is the snapshot of a checklist item that was ticked when an
// entry was saved. The title is copied so later edits to the CheckItem do
// not rewrite history.
type CheckedItem struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title"`
}

// Entry represents a single diary entry.
type Entry struct {
	ID         string        `json:"id"`
	Date       *time.Time    `json:"date,omitempty"`
	Title      string        `json:"title"`
	Body       string        `json:"body"`
	Bookmarked bool          `json:"bookmarked"`
	Weather    Weather       `json:"weather"`
	Image      []byte        `json:"image,omitempty"`
	Checklist  []CheckedItem `json:"checklist,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CheckItem is a reusable checklist template item. Its lifecycle is
// independent of any entry.
type CheckItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft holds the user-supplied fields of an entry that has not been saved yet.
type Draft struct {
	Date       *time.Time
	Title      string
	Body       string
	Bookmarked bool
	Weather    Weather
	Image      []byte
	Checklist  []CheckedItem
}

// NewID generates a new nanoid for an entry or check item.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

// ValidateID checks whether an ID matches the expected pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid ID: %q (must be 8 lowercase alphanumeric characters)", id)
	}
	return nil
}

// New builds an unsaved entry from a draft, assigning a fresh ID and
// stamping CreatedAt and UpdatedAt with now.
func New(d Draft, now time.Time) (Entry, error) {
	id, err := NewID()
	if err != nil {
		return Entry{}, fmt.Errorf("generating entry ID: %w", err)
	}
	now = now.UTC()
	e := Entry{
		ID:         id,
		Title:      d.Title,
		Body:       d.Body,
		Bookmarked: d.Bookmarked,
		Weather:    d.Weather,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if d.Date != nil {
		date := *d.Date
		e.Date = &date
	}
	if len(d.Image) > 0 {
		e.Image = append([]byte(nil), d.Image...)
	}
	if len(d.Checklist) > 0 {
		e.Checklist = append([]CheckedItem(nil), d.Checklist...)
	}
	return e, nil
}

// NewCheckItem builds an unsaved check item.
func NewCheckItem(title string, now time.Time) (CheckItem, error) {
	if strings.TrimSpace(title) == "" {
		return CheckItem{}, fmt.Errorf("check item title must not be empty")
	}
	id, err := NewID()
	if err != nil {
		return CheckItem{}, fmt.Errorf("generating check item ID: %w", err)
	}
	now = now.UTC()
	return CheckItem{ID: id, Title: strings.TrimSpace(title), CreatedAt: now, UpdatedAt: now}, nil
}

// Preview returns a single-line preview of the body, at most maxLen runes.
// Below 4 runes the body is cut without an ellipsis.
func (e *Entry) Preview(maxLen int) string {
	content := []rune(strings.ReplaceAll(e.Body, "\n", " "))
	maxLen = max(maxLen, 0)
	if len(content) <= maxLen {
		return string(content)
	}
	if maxLen < 4 {
		return string(content[:maxLen])
	}
	return string(content[:maxLen-3]) + "..."
}

// Headline is the title when present, otherwise a body preview.
func (e *Entry) Headline(maxLen int) string {
	if e.Title != "" {
		return e.Title
	}
	return e.Preview(maxLen)
}

// HasImage reports whether the entry carries a photo.
func (e *Entry) HasImage() bool {
	return len(e.Image) > 0
}

// SortCheckItems orders items by title, then ID.
func SortCheckItems(items []CheckItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].ID < items[j].ID
	})
}

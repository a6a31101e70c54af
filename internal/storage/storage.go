package storage

import (
	"errors"
	"fmt"

	"github.com/chris-regnier/daybook/internal/entry"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("concurrent write conflict")
	ErrStorage  = errors.New("storage error")
)

// PersistenceError wraps a failure of the underlying storage engine (init,
// migration, save, fetch, count). errors.Is(err, ErrStorage) reports true
// for every PersistenceError.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrStorage }

// Fail wraps err as a PersistenceError for op. It returns nil for a nil err.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// Storage defines the interface for diary persistence. Implementations
// must make every mutation atomic: a failed call leaves the previously
// persisted state intact.
type Storage interface {
	// Entry methods
	Create(e entry.Entry) error
	Get(id string) (entry.Entry, error)
	List(q Query) ([]entry.Entry, error)
	// Update replaces the stored entry with the same ID. Returns
	// ErrNotFound if no such entry exists.
	Update(e entry.Entry) error
	Delete(id string) error
	Count() (int, error)

	// Check item methods
	CreateCheckItem(c entry.CheckItem) error
	GetCheckItem(id string) (entry.CheckItem, error)
	ListCheckItems() ([]entry.CheckItem, error)
	UpdateCheckItem(c entry.CheckItem) error
	DeleteCheckItem(id string) error

	Close() error
}

// Watcher is implemented by backends whose data can change underneath the
// process (for example files edited by hand). Watch calls onChange after
// every external modification until stop is called.
type Watcher interface {
	Watch(onChange func()) (stop func() error, err error)
}

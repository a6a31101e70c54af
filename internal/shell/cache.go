package shell

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/logger"
)

const cacheFileName = ".prompt-cache"

// PromptCache holds the last computed prompt status.
type PromptCache struct {
	WrittenToday bool      `json:"written_today"`
	Streak       int       `json:"streak"`
	Count        int       `json:"count"`
	Day          string    `json:"day"`
	Backend      string    `json:"backend"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CachePath returns the full path to the prompt cache file.
func CachePath(dataDir string) string {
	return filepath.Join(dataDir, cacheFileName)
}

// ReadCache reads the prompt cache. It returns nil when the file is
// missing or unreadable, which callers treat as stale.
func ReadCache(dataDir string) *PromptCache {
	data, err := os.ReadFile(CachePath(dataDir))
	if err != nil {
		return nil
	}
	var c PromptCache
	if err := json.Unmarshal(data, &c); err != nil {
		logger.Debug("ignoring corrupt prompt cache", "path", CachePath(dataDir), "err", err)
		return nil
	}
	return &c
}

// WriteCache replaces the prompt cache. The file is written beside the
// target and renamed so a concurrent prompt never reads half of it.
func WriteCache(dataDir string, c *PromptCache) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dataDir, cacheFileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), CachePath(dataDir))
}

// IsFresh reports whether the cache can still be shown at now. It goes
// stale when the TTL elapses or the calendar day changes, since both the
// streak and WrittenToday depend on the day.
func (c *PromptCache) IsFresh(ttl time.Duration, now time.Time, cal calendar.Calendar) bool {
	if c == nil {
		return false
	}
	if c.Day != dayKey(now, cal) {
		return false
	}
	age := now.Sub(c.UpdatedAt)
	return age >= 0 && age <= ttl
}

// InvalidateCache removes the prompt cache file.
func InvalidateCache(dataDir string) error {
	if err := os.Remove(CachePath(dataDir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func dayKey(t time.Time, cal calendar.Calendar) string {
	return t.In(cal.Location()).Format("2006-01-02")
}

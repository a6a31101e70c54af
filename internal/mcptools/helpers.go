package mcptools

import (
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/shell"
)

const previewLen = 100

func dateString(d *time.Time, loc *time.Location) string {
	if d == nil {
		return ""
	}
	return d.In(loc).Format("2006-01-02")
}

func toResult(e entry.Entry, loc *time.Location) EntryResult {
	return EntryResult{
		ID:         e.ID,
		Date:       dateString(e.Date, loc),
		Title:      e.Title,
		Preview:    e.Preview(previewLen),
		Bookmarked: e.Bookmarked,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

// invalidate drops the shell prompt cache after a write (best-effort).
func (d Deps) invalidate() {
	if d.DataDir != "" {
		_ = shell.InvalidateCache(d.DataDir)
	}
}

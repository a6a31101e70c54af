package entry

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"
)

// Changes describes a partial update of an entry. Nil fields are left alone.
type Changes struct {
	Date       *time.Time
	ClearDate  bool
	Title      *string
	Body       *string
	Bookmarked *bool
	Weather    *Weather
	Image      []byte
	ClearImage bool
	Checklist  *[]CheckedItem
}

// Apply writes each changed field into e and returns the names of the
// fields that actually changed. Title and body are only written when the
// new value is non-empty, so an editor closed without input never blanks a
// field. UpdatedAt is set to now on every call, clamped so it never
// precedes CreatedAt.
func (e *Entry) Apply(c Changes, now time.Time) []string {
	var changed []string

	switch {
	case c.ClearDate:
		if e.Date != nil {
			e.Date = nil
			changed = append(changed, "date")
		}
	case c.Date != nil:
		if e.Date == nil || !e.Date.Equal(*c.Date) {
			d := *c.Date
			e.Date = &d
			changed = append(changed, "date")
		}
	}

	if c.Title != nil && *c.Title != "" && *c.Title != e.Title {
		e.Title = *c.Title
		changed = append(changed, "title")
	}
	if c.Body != nil && *c.Body != "" && *c.Body != e.Body {
		e.Body = *c.Body
		changed = append(changed, "body")
	}
	if c.Bookmarked != nil && *c.Bookmarked != e.Bookmarked {
		e.Bookmarked = *c.Bookmarked
		changed = append(changed, "bookmarked")
	}
	if c.Weather != nil && *c.Weather != e.Weather {
		e.Weather = *c.Weather
		changed = append(changed, "weather")
	}

	switch {
	case c.ClearImage:
		if len(e.Image) > 0 {
			e.Image = nil
			changed = append(changed, "image")
		}
	case len(c.Image) > 0:
		if !SameImage(e.Image, c.Image) {
			e.Image = append([]byte(nil), c.Image...)
			changed = append(changed, "image")
		}
	}

	if c.Checklist != nil && !sameChecklist(e.Checklist, *c.Checklist) {
		e.Checklist = append([]CheckedItem(nil), (*c.Checklist)...)
		changed = append(changed, "checklist")
	}

	now = now.UTC()
	if now.Before(e.CreatedAt) {
		now = e.CreatedAt
	}
	e.UpdatedAt = now

	return changed
}

// SameImage compares two encoded images by their decoded pixels, so a
// re-encoded copy of the same bitmap counts as unchanged. Payloads that do
// not decode are compared byte for byte.
func SameImage(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	if bytes.Equal(a, b) {
		return true
	}
	ia, _, errA := image.Decode(bytes.NewReader(a))
	ib, _, errB := image.Decode(bytes.NewReader(b))
	if errA != nil || errB != nil {
		return false
	}
	bounds := ia.Bounds()
	if bounds != ib.Bounds() {
		return false
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r1, g1, b1, a1 := ia.At(x, y).RGBA()
			r2, g2, b2, a2 := ib.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}

func sameChecklist(a, b []CheckedItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

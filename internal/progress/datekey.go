package progress

import "time"

// DateKey identifies one calendar day in the timezone of the instant it
// was derived from. Keys compare by equality only; they are not
// timestamps.
type DateKey string

const dateKeyLayout = "2006-01-02"

// NewDateKey returns the key for the calendar day containing t.
func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// SameDay reports whether the key falls on the same calendar day as t.
func (k DateKey) SameDay(t time.Time) bool {
	return k == NewDateKey(t)
}

// Yesterday reports whether the key is the calendar day immediately
// before t's day.
func (k DateKey) Yesterday(t time.Time) bool {
	return k == NewDateKey(t.AddDate(0, 0, -1))
}

// date parses the key back to midnight UTC of its calendar day.
func (k DateKey) date() (time.Time, bool) {
	t, err := time.Parse(dateKeyLayout, string(k))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the absolute number of calendar days separating two
// keys. Keys are already normalized dates, so the subtraction happens on
// UTC midnights and is immune to DST shifts in the originating timezone.
// Malformed keys count as zero days apart.
func DaysBetween(a, b DateKey) int {
	ta, okA := a.date()
	tb, okB := b.date()
	if !okA || !okB {
		return 0
	}
	days := int(ta.Sub(tb).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

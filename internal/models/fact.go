// Package models provides data model definitions for hamster-export.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeLayout is the naive local timestamp format Hamster writes to SQLite.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp wraps time.Time to scan Hamster's TEXT timestamps.
type Timestamp struct {
	time.Time
}

// Scan implements sql.Scanner for Timestamp.
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
}

func (t *Timestamp) parse(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Value implements driver.Valuer for Timestamp.
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(TimeLayout), nil
}

// Fact represents one logged time entry.
type Fact struct {
	ID          int64     `db:"id" json:"id"`
	Activity    string    `db:"activity" json:"activity"`
	Category    string    `db:"category" json:"category"`
	Start       Timestamp `db:"start_time" json:"start_time"`
	End         Timestamp `db:"end_time" json:"end_time,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	Tags        []string  `db:"-" json:"tags,omitempty"`
}

// Ongoing reports whether the fact is still being tracked.
func (f *Fact) Ongoing() bool {
	return f.End.IsZero()
}

// Duration returns the tracked duration. Ongoing facts measure up to now.
func (f *Fact) Duration(now time.Time) time.Duration {
	end := f.End.Time
	if f.Ongoing() {
		end = now
	}
	if end.Before(f.Start.Time) {
		return 0
	}
	return end.Sub(f.Start.Time)
}

// Valid reports whether the fact's time range is consistent.
// An ongoing fact is valid; a closed fact must not end before it starts.
func (f *Fact) Valid() bool {
	return f.Ongoing() || !f.End.Time.Before(f.Start.Time)
}

// Day returns the hamster-day the fact belongs to: the calendar day of its
// start shifted back by dayStart, so work at 01:00 with the default 05:30
// day start counts toward the previous day. A zero dayStart disables the
// shift.
func (f *Fact) Day(dayStart time.Duration) time.Time {
	shifted := f.Start.Add(-dayStart)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, shifted.Location())
}

// Overlaps reports whether two facts' [start, end) ranges intersect.
// Ongoing facts are treated as extending to now.
func (f *Fact) Overlaps(other *Fact, now time.Time) bool {
	fEnd := f.End.Time
	if f.Ongoing() {
		fEnd = now
	}
	oEnd := other.End.Time
	if other.Ongoing() {
		oEnd = now
	}
	return f.Start.Time.Before(oEnd) && other.Start.Time.Before(fEnd)
}

// Label returns the activity@category display form used by Hamster.
func (f *Fact) Label() string {
	if f.Category == "" {
		return f.Activity
	}
	return f.Activity + "@" + f.Category
}

package main

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// resolveRange turns --from/--to values into a half-open [from, to) window.
// --from accepts a date or one of the shortcuts today, yesterday, week and
// month, which define the whole window; --to accepts a date, taken as an
// inclusive day. Empty values leave the corresponding bound open.
func resolveRange(fromStr, toStr string, dayStart time.Duration, now time.Time) (time.Time, time.Time, error) {
	switch fromStr {
	case "today":
		from := dayAnchor(now, dayStart)
		return from, from.Add(24 * time.Hour), nil
	case "yesterday":
		to := dayAnchor(now, dayStart)
		return to.Add(-24 * time.Hour), to, nil
	case "week":
		anchor := dayAnchor(now, dayStart)
		// Back up to Monday.
		offset := (int(anchor.Weekday()) + 6) % 7
		from := anchor.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 7), nil
	case "month":
		anchor := dayAnchor(now, dayStart)
		from := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location()).Add(dayStart)
		return from, from.AddDate(0, 1, 0), nil
	}

	var from, to time.Time
	if fromStr != "" {
		day, err := time.ParseInLocation(dateLayout, fromStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q: expected %s or today/yesterday/week/month", fromStr, dateLayout)
		}
		from = day.Add(dayStart)
	}
	if toStr != "" {
		day, err := time.ParseInLocation(dateLayout, toStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q: expected %s", toStr, dateLayout)
		}
		to = day.Add(dayStart).Add(24 * time.Hour)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is after --to %s", fromStr, toStr)
	}
	return from, to, nil
}

// dayAnchor returns the start of the hamster-day containing now.
func dayAnchor(now time.Time, dayStart time.Duration) time.Time {
	shifted := now.Add(-dayStart)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, shifted.Location()).Add(dayStart)
}

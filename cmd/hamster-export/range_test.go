package main

import (
	"testing"
	"time"
)

func TestResolveRangeShortcuts(t *testing.T) {
	dayStart := 5*time.Hour + 30*time.Minute
	// A Wednesday, mid-morning.
	now := time.Date(2026, 8, 12, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		from     string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "today",
			from:     "today",
			wantFrom: time.Date(2026, 8, 12, 5, 30, 0, 0, time.Local),
			wantTo:   time.Date(2026, 8, 13, 5, 30, 0, 0, time.Local),
		},
		{
			name:     "yesterday",
			from:     "yesterday",
			wantFrom: time.Date(2026, 8, 11, 5, 30, 0, 0, time.Local),
			wantTo:   time.Date(2026, 8, 12, 5, 30, 0, 0, time.Local),
		},
		{
			name:     "week starts Monday",
			from:     "week",
			wantFrom: time.Date(2026, 8, 10, 5, 30, 0, 0, time.Local),
			wantTo:   time.Date(2026, 8, 17, 5, 30, 0, 0, time.Local),
		},
		{
			name:     "month",
			from:     "month",
			wantFrom: time.Date(2026, 8, 1, 5, 30, 0, 0, time.Local),
			wantTo:   time.Date(2026, 9, 1, 5, 30, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := resolveRange(tt.from, "", dayStart, now)
			if err != nil {
				t.Fatalf("resolveRange failed: %v", err)
			}
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(tt.wantTo) {
				t.Errorf("to = %v, want %v", to, tt.wantTo)
			}
		})
	}
}

func TestResolveRangeEarlyMorning(t *testing.T) {
	dayStart := 5*time.Hour + 30*time.Minute
	// 01:00 is still "today" of the previous calendar day.
	now := time.Date(2026, 8, 12, 1, 0, 0, 0, time.Local)

	from, _, err := resolveRange("today", "", dayStart, now)
	if err != nil {
		t.Fatalf("resolveRange failed: %v", err)
	}
	want := time.Date(2026, 8, 11, 5, 30, 0, 0, time.Local)
	if !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
}

func TestResolveRangeDates(t *testing.T) {
	dayStart := 5*time.Hour + 30*time.Minute
	now := time.Now()

	from, to, err := resolveRange("2026-08-01", "2026-08-10", dayStart, now)
	if err != nil {
		t.Fatalf("resolveRange failed: %v", err)
	}
	if want := time.Date(2026, 8, 1, 5, 30, 0, 0, time.Local); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	// --to is an inclusive day: the window extends to the next day start.
	if want := time.Date(2026, 8, 11, 5, 30, 0, 0, time.Local); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}
}

func TestResolveRangeOpenBounds(t *testing.T) {
	from, to, err := resolveRange("", "", 0, time.Now())
	if err != nil {
		t.Fatalf("resolveRange failed: %v", err)
	}
	if !from.IsZero() || !to.IsZero() {
		t.Errorf("empty flags should leave both bounds open, got %v, %v", from, to)
	}
}

func TestResolveRangeErrors(t *testing.T) {
	now := time.Now()
	if _, _, err := resolveRange("not-a-date", "", 0, now); err == nil {
		t.Error("expected error for bad --from")
	}
	if _, _, err := resolveRange("2026-08-01", "garbage", 0, now); err == nil {
		t.Error("expected error for bad --to")
	}
	if _, _, err := resolveRange("2026-08-10", "2026-08-01", 0, now); err == nil {
		t.Error("expected error for inverted range")
	}
}

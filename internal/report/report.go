// Package report aggregates facts into per-bucket and grand totals.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gdrius/hamster-export/internal/models"
)

// Options control how facts are aggregated.
type Options struct {
	DayStart     time.Duration // hamster-day boundary offset
	RoundMinutes int           // 0 disables rounding
	HourlyRate   decimal.Decimal
	HasRate      bool
	Now          time.Time // reference time for ongoing facts
}

// Bucket is one aggregation row: a label with its total tracked time.
type Bucket struct {
	Name  string
	Total time.Duration
	Count int
}

// Summary holds the aggregated totals for a fact slice.
type Summary struct {
	FactCount  int
	Total      time.Duration
	ByActivity []Bucket
	ByCategory []Bucket
	ByTag      []Bucket
	ByDay      []Bucket
}

// Build aggregates facts into a Summary. Totals are raw; rounding is applied
// by the render helpers so the parts always sum to the whole.
func Build(facts []*models.Fact, opts Options) *Summary {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	activity := make(map[string]*Bucket)
	category := make(map[string]*Bucket)
	tag := make(map[string]*Bucket)
	day := make(map[string]*Bucket)

	s := &Summary{}
	for _, f := range facts {
		if !f.Valid() {
			continue
		}
		d := f.Duration(now)
		s.FactCount++
		s.Total += d

		add(activity, f.Label(), d)
		cat := f.Category
		if cat == "" {
			cat = models.UnsortedCategory
		}
		add(category, cat, d)
		for _, t := range f.Tags {
			add(tag, t, d)
		}
		add(day, f.Day(opts.DayStart).Format("2006-01-02"), d)
	}

	s.ByActivity = sorted(activity)
	s.ByCategory = sorted(category)
	s.ByTag = sorted(tag)
	s.ByDay = sortedByName(day)
	return s
}

func add(m map[string]*Bucket, name string, d time.Duration) {
	b, ok := m[name]
	if !ok {
		b = &Bucket{Name: name}
		m[name] = b
	}
	b.Total += d
	b.Count++
}

// sorted returns buckets largest-first, name as tiebreak.
func sorted(m map[string]*Bucket) []Bucket {
	out := collect(m)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// sortedByName returns buckets in name order (used for day buckets).
func sortedByName(m map[string]*Bucket) []Bucket {
	out := collect(m)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func collect(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	return out
}

// Round rounds a duration to the given increment in minutes, half up.
// Nonzero durations never round down to zero. A zero increment is a no-op.
func Round(d time.Duration, minutes int) time.Duration {
	if minutes <= 0 || d == 0 {
		return d
	}
	increment := time.Duration(minutes) * time.Minute
	rounded := (d + increment/2) / increment * increment
	if rounded == 0 {
		rounded = increment
	}
	return rounded
}

// Hours converts a duration to decimal hours.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}

// Amount computes the billable amount for a duration at an hourly rate,
// rounded half up to cents.
func Amount(d time.Duration, rate decimal.Decimal) decimal.Decimal {
	return Hours(d).Mul(rate).Round(2)
}

// Package export renders facts into the supported output formats.
package export

import (
	"io"
	"sort"
	"strings"
	"time"

	apperrors "github.com/gdrius/hamster-export/internal/errors"
	"github.com/gdrius/hamster-export/internal/models"
)

// Metadata accompanies every export run.
type Metadata struct {
	GeneratedAt time.Time
	From        time.Time
	To          time.Time
	Now         time.Time     // reference end for ongoing facts
	DayStart    time.Duration // hamster-day boundary for day grouping
}

// Formatter renders a fact slice to a writer.
type Formatter interface {
	// Name returns the format name used on the command line.
	Name() string

	// Extension returns the output file extension without the dot.
	Extension() string

	// Write renders facts to w. Facts arrive ordered by start time, id.
	Write(w io.Writer, facts []*models.Fact, meta Metadata) error
}

var registry = map[string]Formatter{}

// Register adds a formatter to the registry. Duplicate names panic;
// registration happens only from init functions.
func Register(f Formatter) {
	if _, exists := registry[f.Name()]; exists {
		panic("duplicate formatter: " + f.Name())
	}
	registry[f.Name()] = f
}

// Get returns the formatter for a name.
func Get(name string) (Formatter, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnsupportedFormat,
			"unsupported format %q, supported: %s", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names returns the sorted registered format names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// categoryName returns the export form of a fact's category, "Unsorted"
// for facts whose activity has none (Hamster's own convention).
func categoryName(f *models.Fact) string {
	if f.Category == "" {
		return models.UnsortedCategory
	}
	return f.Category
}

// Options control which facts are eligible for export.
type Options struct {
	IncludeOngoing bool
	Now            time.Time
}

// Prepare splits facts into exportable and skipped ones. Facts with an end
// before their start are always skipped; ongoing facts are skipped unless
// requested.
func Prepare(facts []*models.Fact, opts Options) (kept, skipped []*models.Fact) {
	for _, f := range facts {
		switch {
		case !f.Valid():
			skipped = append(skipped, f)
		case f.Ongoing() && !opts.IncludeOngoing:
			skipped = append(skipped, f)
		default:
			kept = append(kept, f)
		}
	}
	return kept, skipped
}

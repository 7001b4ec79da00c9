// Package db provides fact query filter building.
package db

import (
	"strings"
	"time"

	apperrors "github.com/gdrius/hamster-export/internal/errors"
	"github.com/gdrius/hamster-export/internal/models"
)

// Filter represents a single fact filter condition.
type Filter interface {
	// SQL returns the SQL fragment for this filter
	SQL() string

	// Args returns the arguments for this filter
	Args() []interface{}

	// Valid checks if the filter is valid
	Valid() bool
}

// DateRangeFilter filters facts by start time, [From, To).
type DateRangeFilter struct {
	From time.Time
	To   time.Time
}

// Valid checks if the date range is valid.
func (f *DateRangeFilter) Valid() bool {
	if f.From.IsZero() && f.To.IsZero() {
		return false
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return false
	}
	return true
}

// SQL returns the SQL fragment for date range filtering.
func (f *DateRangeFilter) SQL() string {
	var parts []string
	if !f.From.IsZero() {
		parts = append(parts, "f.start_time >= ?")
	}
	if !f.To.IsZero() {
		parts = append(parts, "f.start_time < ?")
	}
	return strings.Join(parts, " AND ")
}

// Args returns the arguments for date range filtering.
func (f *DateRangeFilter) Args() []interface{} {
	var args []interface{}
	if !f.From.IsZero() {
		args = append(args, f.From.Format(models.TimeLayout))
	}
	if !f.To.IsZero() {
		args = append(args, f.To.Format(models.TimeLayout))
	}
	return args
}

// CategoryFilter filters facts by category name, case-insensitively.
// "Unsorted" matches facts whose activity has no category.
type CategoryFilter struct {
	Name string
}

func (f *CategoryFilter) Valid() bool {
	return f.Name != ""
}

func (f *CategoryFilter) SQL() string {
	if strings.EqualFold(f.Name, models.UnsortedCategory) {
		return "c.name IS NULL"
	}
	return "c.name = ? COLLATE NOCASE"
}

func (f *CategoryFilter) Args() []interface{} {
	if strings.EqualFold(f.Name, models.UnsortedCategory) {
		return nil
	}
	return []interface{}{f.Name}
}

// ActivityFilter filters facts by activity name, case-insensitively.
type ActivityFilter struct {
	Name string
}

func (f *ActivityFilter) Valid() bool {
	return f.Name != ""
}

func (f *ActivityFilter) SQL() string {
	return "a.name = ? COLLATE NOCASE"
}

func (f *ActivityFilter) Args() []interface{} {
	return []interface{}{f.Name}
}

// TagFilter filters facts carrying a given tag.
type TagFilter struct {
	Name string
}

func (f *TagFilter) Valid() bool {
	return f.Name != ""
}

func (f *TagFilter) SQL() string {
	return `EXISTS (
		SELECT 1 FROM fact_tags ft
		JOIN tags t ON t.id = ft.tag_id
		WHERE ft.fact_id = f.id AND t.name = ? COLLATE NOCASE
	)`
}

func (f *TagFilter) Args() []interface{} {
	return []interface{}{f.Name}
}

// SearchFilter matches a term against activity name and fact description.
type SearchFilter struct {
	Term string
}

func (f *SearchFilter) Valid() bool {
	return strings.TrimSpace(f.Term) != ""
}

func (f *SearchFilter) SQL() string {
	return `(a.name LIKE ? ESCAPE '\' OR COALESCE(f.description, '') LIKE ? ESCAPE '\')`
}

func (f *SearchFilter) Args() []interface{} {
	pattern := "%" + escapeLike(f.Term) + "%"
	return []interface{}{pattern, pattern}
}

// escapeLike escapes LIKE wildcards in a user-supplied term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// buildWhere composes validated filters into a WHERE clause tail.
// Returns an empty clause when no filters are given.
func buildWhere(filters []Filter) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}
	for _, f := range filters {
		if !f.Valid() {
			return "", nil, apperrors.Newf(apperrors.ErrInvalidFilter, "invalid filter %T", f)
		}
		clauses = append(clauses, f.SQL())
		args = append(args, f.Args()...)
	}
	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " AND " + strings.Join(clauses, " AND "), args, nil
}

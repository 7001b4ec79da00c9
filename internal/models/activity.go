// Package models provides data model definitions for hamster-export.
package models

import "database/sql"

// UnsortedCategory is the display name Hamster uses for facts whose
// activity has no category.
const UnsortedCategory = "Unsorted"

// Activity represents a trackable activity.
type Activity struct {
	ID       int64          `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Category sql.NullString `db:"category" json:"-"`
	Deleted  bool           `db:"deleted" json:"deleted,omitempty"`
}

// CategoryName returns the category display name, "Unsorted" when unset.
func (a *Activity) CategoryName() string {
	if a.Category.Valid && a.Category.String != "" {
		return a.Category.String
	}
	return UnsortedCategory
}

// Category represents an activity grouping.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Tag represents a user-defined label attached to facts.
type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

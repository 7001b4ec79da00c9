// Package db provides unit tests for the Hamster query layer.
package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gdrius/hamster-export/internal/models"
)

// hamsterSchema mirrors the tables Hamster creates.
const hamsterSchema = `
CREATE TABLE facts (
	id INTEGER PRIMARY KEY,
	activity_id INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT,
	description TEXT
);

CREATE TABLE activities (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	deleted INTEGER,
	category_id INTEGER,
	search_name TEXT
);

CREATE TABLE categories (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	search_name TEXT
);

CREATE TABLE tags (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	autocomplete BOOL DEFAULT true
);

CREATE TABLE fact_tags (
	fact_id INTEGER,
	tag_id INTEGER
);

CREATE TABLE version (
	version INTEGER
);

INSERT INTO version VALUES (9);
`

const hamsterFixture = `
INSERT INTO categories (id, name) VALUES (1, 'Work'), (2, 'Home');
INSERT INTO activities (id, name, deleted, category_id) VALUES
	(1, 'coding', 0, 1),
	(2, 'meetings', 0, 1),
	(3, 'cleaning', 0, 2),
	(4, 'idling', NULL, NULL),
	(5, 'retired', 1, 1);
INSERT INTO tags (id, name) VALUES (1, 'billable'), (2, 'urgent');
INSERT INTO facts (id, activity_id, start_time, end_time, description) VALUES
	(1, 1, '2026-08-10 09:00:00', '2026-08-10 11:00:00', 'feature work'),
	(2, 2, '2026-08-10 11:00:00', '2026-08-10 12:00:00', 'standup'),
	(3, 3, '2026-08-10 18:00:00', '2026-08-10 19:00:00', ''),
	(4, 4, '2026-08-11 01:00:00', '2026-08-11 02:00:00', NULL),
	(5, 1, '2026-08-12 09:00:00', NULL, 'in progress');
INSERT INTO fact_tags (fact_id, tag_id) VALUES (1, 1), (1, 2), (2, 1);
`

// setupHamsterDB builds a Hamster-schema database on disk and opens it
// through Open so the read-only pragmas apply, as in production.
func setupHamsterDB(t *testing.T, extraSQL ...string) (*DB, *Repository) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hamster.db")

	seed, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if _, err := seed.Exec(hamsterSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	for _, stmt := range extraSQL {
		if _, err := seed.Exec(stmt); err != nil {
			t.Fatalf("Failed to seed database: %v", err)
		}
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("Failed to close seed connection: %v", err)
	}

	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, NewRepository(conn)
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("expected error for missing database")
	}
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsReadOnly(t *testing.T) {
	conn, _ := setupHamsterDB(t, hamsterFixture)
	if _, err := conn.Exec("INSERT INTO tags (id, name) VALUES (99, 'nope')"); err == nil {
		t.Fatal("write should fail on a query_only connection")
	}
}

func TestFactsOrderingAndTags(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	facts, err := repo.Facts()
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(facts) != 5 {
		t.Fatalf("got %d facts, want 5", len(facts))
	}

	for i := 1; i < len(facts); i++ {
		if facts[i].Start.Before(facts[i-1].Start.Time) {
			t.Fatalf("facts out of order at %d", i)
		}
	}

	first := facts[0]
	if first.Activity != "coding" || first.Category != "Work" {
		t.Errorf("first fact = %s@%s, want coding@Work", first.Activity, first.Category)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "billable" || first.Tags[1] != "urgent" {
		t.Errorf("first fact tags = %v, want [billable urgent]", first.Tags)
	}

	uncategorized := facts[3]
	if uncategorized.Activity != "idling" || uncategorized.Category != "" {
		t.Errorf("uncategorized fact = %s@%q", uncategorized.Activity, uncategorized.Category)
	}

	ongoing := facts[4]
	if !ongoing.Ongoing() {
		t.Error("fact 5 should be ongoing")
	}
}

func TestFactsDateRange(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	from := localTime(t, "2026-08-10 00:00:00")
	to := localTime(t, "2026-08-11 00:00:00")
	facts, err := repo.Facts(&DateRangeFilter{From: from, To: to})
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(facts) != 3 {
		t.Fatalf("got %d facts in range, want 3", len(facts))
	}
}

func TestFactsCategoryFilter(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	work, err := repo.Facts(&CategoryFilter{Name: "work"})
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(work) != 3 {
		t.Fatalf("got %d Work facts, want 3", len(work))
	}

	unsorted, err := repo.Facts(&CategoryFilter{Name: "Unsorted"})
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(unsorted) != 1 || unsorted[0].Activity != "idling" {
		t.Fatalf("Unsorted filter = %v facts, want the idling fact", len(unsorted))
	}
}

func TestFactsTagAndSearchFilters(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	billable, err := repo.Facts(&TagFilter{Name: "billable"})
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(billable) != 2 {
		t.Fatalf("got %d billable facts, want 2", len(billable))
	}

	found, err := repo.Facts(&SearchFilter{Term: "standup"})
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != 2 {
		t.Fatalf("search for standup = %d facts, want fact 2", len(found))
	}

	// LIKE wildcards in user input must not match everything.
	none, err := repo.Facts(&SearchFilter{Term: "%"})
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("literal %% search matched %d facts, want 0", len(none))
	}
}

func TestFactsInvalidFilter(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	if _, err := repo.Facts(&DateRangeFilter{}); err == nil {
		t.Fatal("expected error for empty date range filter")
	}
}

func TestFactsEmptyResult(t *testing.T) {
	_, repo := setupHamsterDB(t)

	facts, err := repo.Facts()
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(facts) != 0 {
		t.Fatalf("got %d facts from empty database, want 0", len(facts))
	}
}

func TestActivitiesListing(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	activities, err := repo.Activities()
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	// The deleted activity is excluded; NULL deleted counts as active.
	if len(activities) != 4 {
		t.Fatalf("got %d activities, want 4", len(activities))
	}
	if activities[0].Name != "idling" || activities[0].CategoryName() != models.UnsortedCategory {
		t.Errorf("first activity = %s@%s, want idling@Unsorted", activities[0].Name, activities[0].CategoryName())
	}
}

func TestCategoriesAndTags(t *testing.T) {
	_, repo := setupHamsterDB(t, hamsterFixture)

	categories, err := repo.Categories()
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Home" {
		t.Fatalf("categories = %v, want [Home Work]", categories)
	}

	tags, err := repo.Tags()
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "billable" {
		t.Fatalf("tags = %v, want [billable urgent]", tags)
	}
}

func localTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(models.TimeLayout, value, time.Local)
	if err != nil {
		t.Fatalf("bad fixture time %q: %v", value, err)
	}
	return parsed
}

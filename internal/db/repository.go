// Package db provides query operations over the Hamster data model.
package db

import (
	"github.com/jmoiron/sqlx"

	apperrors "github.com/gdrius/hamster-export/internal/errors"
	"github.com/gdrius/hamster-export/internal/models"
)

// Repository provides read operations for all models.
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository instance.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

const factSelect = `
SELECT f.id,
       a.name AS activity,
       COALESCE(c.name, '') AS category,
       f.start_time,
       f.end_time,
       COALESCE(f.description, '') AS description
FROM facts f
JOIN activities a ON a.id = f.activity_id
LEFT JOIN categories c ON c.id = a.category_id
WHERE 1 = 1`

// Facts returns facts matching the given filters, ordered by start time
// then ID. Tags are resolved in a single follow-up query.
func (r *Repository) Facts(filters ...Filter) ([]*models.Fact, error) {
	where, args, err := buildWhere(filters)
	if err != nil {
		return nil, err
	}

	query := factSelect + where + " ORDER BY f.start_time, f.id"

	var facts []*models.Fact
	if err := r.db.Select(&facts, query, args...); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to query facts", err)
	}
	if len(facts) == 0 {
		return facts, nil
	}

	if err := r.attachTags(facts); err != nil {
		return nil, err
	}
	return facts, nil
}

// attachTags resolves tag names for a slice of facts in one query.
func (r *Repository) attachTags(facts []*models.Fact) error {
	ids := make([]int64, len(facts))
	byID := make(map[int64]*models.Fact, len(facts))
	for i, f := range facts {
		ids[i] = f.ID
		byID[f.ID] = f
	}

	query, args, err := sqlx.In(`
		SELECT ft.fact_id, t.name
		FROM fact_tags ft
		JOIN tags t ON t.id = ft.tag_id
		WHERE ft.fact_id IN (?)
		ORDER BY ft.fact_id, t.name`, ids)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to build tag query", err)
	}

	rows, err := r.db.Queryx(r.db.Rebind(query), args...)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to query fact tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var factID int64
		var name string
		if err := rows.Scan(&factID, &name); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, "failed to scan fact tag", err)
		}
		if f, ok := byID[factID]; ok {
			f.Tags = append(f.Tags, name)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to iterate fact tags", err)
	}
	return nil
}

// Activities returns all non-deleted activities with their category names.
func (r *Repository) Activities() ([]*models.Activity, error) {
	query := `
	SELECT a.id, a.name, c.name AS category, COALESCE(a.deleted, 0) AS deleted
	FROM activities a
	LEFT JOIN categories c ON c.id = a.category_id
	WHERE COALESCE(a.deleted, 0) = 0
	ORDER BY COALESCE(c.name, ''), a.name`

	var activities []*models.Activity
	if err := r.db.Select(&activities, query); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to query activities", err)
	}
	return activities, nil
}

// Categories returns all categories ordered by name.
func (r *Repository) Categories() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.Select(&categories, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to query categories", err)
	}
	return categories, nil
}

// Tags returns all tags ordered by name.
func (r *Repository) Tags() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Select(&tags, "SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to query tags", err)
	}
	return tags, nil
}

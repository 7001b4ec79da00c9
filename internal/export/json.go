package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gdrius/hamster-export/internal/models"
)

func init() {
	Register(&JSONFormatter{})
}

// JSONFormatter renders facts as a JSON document with a small header.
type JSONFormatter struct{}

func (f *JSONFormatter) Name() string      { return "json" }
func (f *JSONFormatter) Extension() string { return "json" }

type jsonDocument struct {
	GeneratedAt time.Time  `json:"generated_at"`
	From        string     `json:"from,omitempty"`
	To          string     `json:"to,omitempty"`
	FactCount   int        `json:"fact_count"`
	Facts       []jsonFact `json:"facts"`
}

type jsonFact struct {
	ID              int64    `json:"id"`
	Start           string   `json:"start"`
	End             string   `json:"end,omitempty"`
	DurationMinutes int64    `json:"duration_minutes"`
	Activity        string   `json:"activity"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Write renders the facts. An empty slice produces an empty facts array.
func (f *JSONFormatter) Write(w io.Writer, facts []*models.Fact, meta Metadata) error {
	doc := jsonDocument{
		GeneratedAt: meta.GeneratedAt,
		FactCount:   len(facts),
		Facts:       make([]jsonFact, 0, len(facts)),
	}
	if !meta.From.IsZero() {
		doc.From = meta.From.Format(models.TimeLayout)
	}
	if !meta.To.IsZero() {
		doc.To = meta.To.Format(models.TimeLayout)
	}

	for _, fact := range facts {
		jf := jsonFact{
			ID:              fact.ID,
			Start:           fact.Start.Format(models.TimeLayout),
			DurationMinutes: int64(fact.Duration(meta.Now).Minutes()),
			Activity:        fact.Activity,
			Category:        categoryName(fact),
			Tags:            fact.Tags,
			Description:     fact.Description,
		}
		if !fact.Ongoing() {
			jf.End = fact.End.Format(models.TimeLayout)
		}
		doc.Facts = append(doc.Facts, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

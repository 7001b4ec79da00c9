package export

import (
	"encoding/xml"
	"io"

	"github.com/gdrius/hamster-export/internal/models"
)

func init() {
	Register(&XMLFormatter{})
}

// XMLFormatter renders facts as a <facts> document.
type XMLFormatter struct{}

func (f *XMLFormatter) Name() string      { return "xml" }
func (f *XMLFormatter) Extension() string { return "xml" }

type xmlDocument struct {
	XMLName     xml.Name  `xml:"facts"`
	GeneratedAt string    `xml:"generated_at,attr"`
	Facts       []xmlFact `xml:"fact"`
}

type xmlFact struct {
	ID              int64    `xml:"id,attr"`
	Start           string   `xml:"start"`
	End             string   `xml:"end,omitempty"`
	DurationMinutes int64    `xml:"duration_minutes"`
	Activity        string   `xml:"activity"`
	Category        string   `xml:"category"`
	Tags            []string `xml:"tags>tag,omitempty"`
	Description     string   `xml:"description,omitempty"`
}

// Write renders the facts. An empty slice produces an empty <facts/> element.
func (f *XMLFormatter) Write(w io.Writer, facts []*models.Fact, meta Metadata) error {
	doc := xmlDocument{
		GeneratedAt: meta.GeneratedAt.Format(models.TimeLayout),
	}

	for _, fact := range facts {
		xf := xmlFact{
			ID:              fact.ID,
			Start:           fact.Start.Format(models.TimeLayout),
			DurationMinutes: int64(fact.Duration(meta.Now).Minutes()),
			Activity:        fact.Activity,
			Category:        categoryName(fact),
			Tags:            fact.Tags,
			Description:     fact.Description,
		}
		if !fact.Ongoing() {
			xf.End = fact.End.Format(models.TimeLayout)
		}
		doc.Facts = append(doc.Facts, xf)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

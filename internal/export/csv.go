package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/gdrius/hamster-export/internal/models"
)

func init() {
	Register(&CSVFormatter{name: "csv", extension: "csv", delimiter: ','})
	Register(&CSVFormatter{name: "tsv", extension: "tsv", delimiter: '\t'})
}

// CSVFormatter renders facts as delimiter-separated values, one row per fact.
type CSVFormatter struct {
	name      string
	extension string
	delimiter rune
}

func (f *CSVFormatter) Name() string      { return f.name }
func (f *CSVFormatter) Extension() string { return f.extension }

var csvHeader = []string{
	"id", "start", "end", "duration_minutes", "activity", "category", "tags", "description",
}

// Write renders the facts. An empty fact slice produces the header only.
func (f *CSVFormatter) Write(w io.Writer, facts []*models.Fact, meta Metadata) error {
	cw := csv.NewWriter(w)
	cw.Comma = f.delimiter

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, fact := range facts {
		end := ""
		if !fact.Ongoing() {
			end = fact.End.Format(models.TimeLayout)
		}
		row := []string{
			strconv.FormatInt(fact.ID, 10),
			fact.Start.Format(models.TimeLayout),
			end,
			strconv.FormatInt(int64(fact.Duration(meta.Now).Minutes()), 10),
			fact.Activity,
			categoryName(fact),
			strings.Join(fact.Tags, ", "),
			fact.Description,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

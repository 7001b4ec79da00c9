package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/gdrius/hamster-export/internal/models"
)

func init() {
	Register(&HTMLFormatter{})
}

// HTMLFormatter renders a standalone report page with per-day sections.
type HTMLFormatter struct{}

func (f *HTMLFormatter) Name() string      { return "html" }
func (f *HTMLFormatter) Extension() string { return "html" }

type htmlDay struct {
	Date  string
	Total string
	Facts []htmlFact
}

type htmlFact struct {
	Start       string
	End         string
	Duration    string
	Label       string
	Tags        string
	Description string
}

type htmlPage struct {
	GeneratedAt string
	FactCount   int
	GrandTotal  string
	Days        []htmlDay
}

// Write renders the facts. An empty slice produces a page with zero totals.
func (f *HTMLFormatter) Write(w io.Writer, facts []*models.Fact, meta Metadata) error {
	page := htmlPage{
		GeneratedAt: meta.GeneratedAt.Format(models.TimeLayout),
		FactCount:   len(facts),
	}

	// Facts arrive ordered by start time, so days are contiguous.
	var grand, dayTotal time.Duration
	cur := -1
	flush := func() {
		if cur >= 0 {
			page.Days[cur].Total = formatDuration(dayTotal)
		}
	}
	for _, fact := range facts {
		day := fact.Day(meta.DayStart).Format("2006-01-02")
		if cur < 0 || page.Days[cur].Date != day {
			flush()
			page.Days = append(page.Days, htmlDay{Date: day})
			cur = len(page.Days) - 1
			dayTotal = 0
		}

		d := fact.Duration(meta.Now)
		grand += d
		dayTotal += d

		end := "ongoing"
		if !fact.Ongoing() {
			end = fact.End.Format("15:04")
		}
		page.Days[cur].Facts = append(page.Days[cur].Facts, htmlFact{
			Start:       fact.Start.Format("15:04"),
			End:         end,
			Duration:    formatDuration(d),
			Label:       fact.Label(),
			Tags:        joinTags(fact.Tags),
			Description: fact.Description,
		})
	}
	flush()
	page.GrandTotal = formatDuration(grand)

	return htmlTemplate.Execute(w, page)
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// formatDuration renders a duration as H:MM.
func formatDuration(d time.Duration) string {
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Hamster time report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; border-bottom: 1px solid #ccc; padding-bottom: 0.2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
td, th { padding: 0.25em 0.75em; text-align: left; }
th { border-bottom: 1px solid #999; }
.total { font-weight: bold; }
.meta { color: #777; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Hamster time report</h1>
<p class="meta">Generated {{.GeneratedAt}} &middot; {{.FactCount}} facts &middot; total {{.GrandTotal}}</p>
{{range .Days}}
<h2>{{.Date}} <span class="total">{{.Total}}</span></h2>
<table>
<tr><th>Start</th><th>End</th><th>Duration</th><th>Activity</th><th>Tags</th><th>Description</th></tr>
{{range .Facts}}
<tr><td>{{.Start}}</td><td>{{.End}}</td><td>{{.Duration}}</td><td>{{.Label}}</td><td>{{.Tags}}</td><td>{{.Description}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

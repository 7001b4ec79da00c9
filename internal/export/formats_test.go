// Package export provides unit tests for the JSON, XML, iCal and HTML
// formatters.
package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdrius/hamster-export/internal/models"
)

func TestJSONWrite(t *testing.T) {
	facts := []*models.Fact{
		testFact(t, 1, "coding", "Work", "2026-08-10 09:00:00", "2026-08-10 11:00:00", "billable"),
	}

	f, err := Get("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, facts, testMeta(t)))

	var doc struct {
		FactCount int `json:"fact_count"`
		Facts     []struct {
			ID              int64    `json:"id"`
			Start           string   `json:"start"`
			End             string   `json:"end"`
			DurationMinutes int64    `json:"duration_minutes"`
			Activity        string   `json:"activity"`
			Category        string   `json:"category"`
			Tags            []string `json:"tags"`
		} `json:"facts"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 1, doc.FactCount)
	require.Len(t, doc.Facts, 1)
	assert.Equal(t, int64(1), doc.Facts[0].ID)
	assert.Equal(t, "2026-08-10 09:00:00", doc.Facts[0].Start)
	assert.Equal(t, int64(120), doc.Facts[0].DurationMinutes)
	assert.Equal(t, []string{"billable"}, doc.Facts[0].Tags)
}

func TestJSONEmpty(t *testing.T) {
	f, err := Get("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, nil, testMeta(t)))

	var doc struct {
		FactCount int               `json:"fact_count"`
		Facts     []json.RawMessage `json:"facts"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 0, doc.FactCount)
	assert.NotNil(t, doc.Facts, "facts must be an empty array, not null")
}

func TestXMLWrite(t *testing.T) {
	facts := []*models.Fact{
		testFact(t, 1, "coding", "Work", "2026-08-10 09:00:00", "2026-08-10 11:00:00", "billable", "urgent"),
	}

	f, err := Get("xml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, facts, testMeta(t)))

	var doc struct {
		XMLName xml.Name `xml:"facts"`
		Facts   []struct {
			ID       int64    `xml:"id,attr"`
			Start    string   `xml:"start"`
			Activity string   `xml:"activity"`
			Tags     []string `xml:"tags>tag"`
		} `xml:"fact"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Facts, 1)
	assert.Equal(t, int64(1), doc.Facts[0].ID)
	assert.Equal(t, []string{"billable", "urgent"}, doc.Facts[0].Tags)
}

func TestXMLEmpty(t *testing.T) {
	f, err := Get("xml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, nil, testMeta(t)))
	assert.Contains(t, buf.String(), "<facts")
}

func TestICalWrite(t *testing.T) {
	facts := []*models.Fact{
		testFact(t, 1, "coding", "Work", "2026-08-10 09:00:00", "2026-08-10 11:00:00", "billable"),
		testFact(t, 2, "errands; shopping", "Home", "2026-08-10 12:00:00", "2026-08-10 13:00:00"),
	}

	f, err := Get("ical")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, facts, testMeta(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "DTSTART:20260810T090000")
	assert.Contains(t, out, "DTEND:20260810T110000")
	assert.Contains(t, out, "SUMMARY:coding@Work")
	assert.Contains(t, out, "CATEGORIES:billable")
	// Semicolons in TEXT values are escaped.
	assert.Contains(t, out, `errands\; shopping`)
	assert.NotContains(t, out, "SUMMARY:errands; shopping")
}

func TestICalEmpty(t *testing.T) {
	f, err := Get("ical")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, nil, testMeta(t)))
	assert.Equal(t, 0, strings.Count(buf.String(), "BEGIN:VEVENT"))
	assert.Contains(t, buf.String(), "END:VCALENDAR")
}

func TestICalLineFolding(t *testing.T) {
	long := strings.Repeat("very long description ", 10)
	facts := []*models.Fact{
		testFact(t, 1, "coding", "Work", "2026-08-10 09:00:00", "2026-08-10 11:00:00"),
	}
	facts[0].Description = long

	f, err := Get("ical")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, facts, testMeta(t)))

	for _, line := range strings.Split(buf.String(), "\r\n") {
		assert.LessOrEqual(t, len(line), 76, "folded lines stay within 75 octets plus continuation space")
	}
}

func TestHTMLWrite(t *testing.T) {
	facts := []*models.Fact{
		// 01:00 belongs to the previous hamster-day.
		testFact(t, 1, "coding", "Work", "2026-08-11 01:00:00", "2026-08-11 02:00:00"),
		testFact(t, 2, "meetings", "Work", "2026-08-11 09:00:00", "2026-08-11 09:30:00"),
	}

	f, err := Get("html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, facts, testMeta(t)))
	out := buf.String()

	assert.Contains(t, out, "<h2>2026-08-10")
	assert.Contains(t, out, "<h2>2026-08-11")
	assert.Contains(t, out, "coding@Work")
	assert.Contains(t, out, "total 1:30")
}

func TestHTMLEscapesContent(t *testing.T) {
	facts := []*models.Fact{
		testFact(t, 1, "<script>alert(1)</script>", "Work", "2026-08-10 09:00:00", "2026-08-10 10:00:00"),
	}

	f, err := Get("html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, facts, testMeta(t)))
	assert.NotContains(t, buf.String(), "<script>alert")
}

func TestHTMLEmpty(t *testing.T) {
	f, err := Get("html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, nil, testMeta(t)))
	assert.Contains(t, buf.String(), "0 facts")
	assert.Contains(t, buf.String(), "total 0:00")
}

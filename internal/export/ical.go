package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/gdrius/hamster-export/internal/models"
	"github.com/gdrius/hamster-export/internal/uuid"
)

func init() {
	Register(&ICalFormatter{})
}

// ICalFormatter renders facts as an iCalendar (RFC 5545) document with one
// VEVENT per fact. Times are emitted as floating local times, matching the
// naive local timestamps Hamster stores.
type ICalFormatter struct{}

func (f *ICalFormatter) Name() string      { return "ical" }
func (f *ICalFormatter) Extension() string { return "ics" }

const icalTimeLayout = "20060102T150405"

// Write renders the facts. An empty slice produces a calendar without events.
func (f *ICalFormatter) Write(w io.Writer, facts []*models.Fact, meta Metadata) error {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//hamster-export//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")

	dtstamp := meta.GeneratedAt.UTC().Format(icalTimeLayout) + "Z"
	for _, fact := range facts {
		end := fact.End.Time
		if fact.Ongoing() {
			end = meta.Now
		}

		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, fmt.Sprintf("UID:%s@hamster-export", uuid.New()))
		writeLine(&b, "DTSTAMP:"+dtstamp)
		writeLine(&b, "DTSTART:"+fact.Start.Format(icalTimeLayout))
		writeLine(&b, "DTEND:"+end.Format(icalTimeLayout))
		writeLine(&b, "SUMMARY:"+escapeText(fact.Label()))
		if fact.Description != "" {
			writeLine(&b, "DESCRIPTION:"+escapeText(fact.Description))
		}
		if len(fact.Tags) > 0 {
			escaped := make([]string, len(fact.Tags))
			for i, t := range fact.Tags {
				escaped[i] = escapeText(t)
			}
			writeLine(&b, "CATEGORIES:"+strings.Join(escaped, ","))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeLine appends a content line with RFC 5545 CRLF termination, folding
// lines longer than 75 octets.
func writeLine(b *strings.Builder, line string) {
	for len(line) > 75 {
		b.WriteString(line[:75])
		b.WriteString("\r\n ")
		line = line[75:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeText escapes TEXT values per RFC 5545 section 3.3.11.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// Package logging configures structured logging for hamster-export.
package logging

import (
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	global *log.Logger
	once   sync.Once
)

// Init initializes the global logger with the given output, level and format.
// Format is either "json" or "text"; unknown values fall back to text.
func Init(out io.Writer, level, format string) {
	once.Do(func() {
		global = log.New()
		global.SetOutput(out)

		lvl, err := log.ParseLevel(level)
		if err != nil {
			lvl = log.InfoLevel
		}
		global.SetLevel(lvl)

		if format == "json" {
			global.SetFormatter(&log.JSONFormatter{})
		} else {
			global.SetFormatter(&log.TextFormatter{
				FullTimestamp: true,
			})
		}
	})
}

// Get returns the global logger instance.
func Get() *log.Logger {
	if global == nil {
		// Diagnostics go to stderr so they never mix with exports on stdout.
		Init(os.Stderr, "info", "text")
	}
	return global
}

// WithFields returns an entry with the given fields on the global logger.
func WithFields(fields log.Fields) *log.Entry {
	return Get().WithFields(fields)
}

// Command hamster-export exports logged time from the Hamster time-tracking
// application.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gdrius/hamster-export/internal/config"
	"github.com/gdrius/hamster-export/internal/db"
	"github.com/gdrius/hamster-export/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfg *config.Config

	dbPath    string
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hamster-export",
		Short: "Export logged time from the Hamster time tracker",
		Long: `hamster-export reads the Hamster time tracker's database and exports
logged time entries to CSV, TSV, JSON, XML, iCalendar or HTML.

The Hamster database is opened read-only; it is never modified.`,
		Example: `  hamster-export export --from 2026-08-01 --to 2026-08-28 --format csv
  hamster-export export --from week --format ical --output week.ics
  hamster-export stats --from month --rate 85.00
  hamster-export list activities`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			if logLevel != "" {
				cfg.Logger.Level = logLevel
			}
			if logFormat != "" {
				cfg.Logger.Format = logFormat
			}
			logging.Init(os.Stderr, cfg.Logger.Level, cfg.Logger.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the Hamster database (default: probe known locations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	rootCmd.AddCommand(
		newExportCmd(),
		newListCmd(),
		newStatsCmd(),
		newCheckCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openRepository opens the configured Hamster database, verifies its schema
// and returns a repository over it. The caller closes the returned DB.
func openRepository() (*db.DB, *db.Repository, error) {
	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		if cfg.Database.Path == "" {
			return nil, nil, fmt.Errorf("%w (probed: %v; set --db or HAMSTER_EXPORT_DATABASE_PATH)",
				err, config.ProbePaths())
		}
		return nil, nil, err
	}

	if _, err := db.Check(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	return conn, db.NewRepository(conn), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hamster-export version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hamster-export v%s\n", Version)
		},
	}
}

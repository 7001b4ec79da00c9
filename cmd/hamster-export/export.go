package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gdrius/hamster-export/internal/db"
	"github.com/gdrius/hamster-export/internal/export"
	"github.com/gdrius/hamster-export/internal/logging"
	"github.com/gdrius/hamster-export/internal/models"
)

func newExportCmd() *cobra.Command {
	var (
		fromStr        string
		toStr          string
		format         string
		output         string
		category       string
		activity       string
		tag            string
		search         string
		includeOngoing bool
		archive        bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export facts to a file or stdout",
		Long: `Export logged facts in the requested format. --output "-" writes to
stdout; with --archive the rendered export is bundled into a tar.gz with a
checksummed manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Export.Format
			}
			formatter, err := export.Get(format)
			if err != nil {
				return err
			}

			now := time.Now()
			facts, meta, err := queryFacts(fromStr, toStr, category, activity, tag, search, now)
			if err != nil {
				return err
			}

			kept, skipped := export.Prepare(facts, export.Options{
				IncludeOngoing: includeOngoing,
				Now:            now,
			})
			reportSkipped(skipped, includeOngoing)

			if archive {
				return writeArchive(formatter, kept, meta, output, now)
			}
			return writeExport(formatter, kept, meta, output)
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "range start: YYYY-MM-DD or today/yesterday/week/month")
	cmd.Flags().StringVar(&toStr, "to", "", "range end, inclusive day: YYYY-MM-DD")
	cmd.Flags().StringVar(&format, "format", "", fmt.Sprintf("output format: %v", export.Names()))
	cmd.Flags().StringVar(&output, "output", "-", `output path, "-" for stdout`)
	cmd.Flags().StringVar(&category, "category", "", "only facts in this category")
	cmd.Flags().StringVar(&activity, "activity", "", "only facts for this activity")
	cmd.Flags().StringVar(&tag, "tag", "", "only facts carrying this tag")
	cmd.Flags().StringVar(&search, "search", "", "only facts matching this term in activity or description")
	cmd.Flags().BoolVar(&includeOngoing, "include-ongoing", false, "include the currently running fact")
	cmd.Flags().BoolVar(&archive, "archive", false, "bundle the export into a tar.gz with a manifest")

	return cmd
}

// queryFacts opens the database and returns facts matching the range and
// filter flags, plus the export metadata for the run.
func queryFacts(fromStr, toStr, category, activity, tag, search string, now time.Time) ([]*models.Fact, export.Metadata, error) {
	from, to, err := resolveRange(fromStr, toStr, cfg.Database.DayStart, now)
	if err != nil {
		return nil, export.Metadata{}, err
	}

	conn, repo, err := openRepository()
	if err != nil {
		return nil, export.Metadata{}, err
	}
	defer conn.Close()

	var filters []db.Filter
	if !from.IsZero() || !to.IsZero() {
		filters = append(filters, &db.DateRangeFilter{From: from, To: to})
	}
	if category != "" {
		filters = append(filters, &db.CategoryFilter{Name: category})
	}
	if activity != "" {
		filters = append(filters, &db.ActivityFilter{Name: activity})
	}
	if tag != "" {
		filters = append(filters, &db.TagFilter{Name: tag})
	}
	if search != "" {
		filters = append(filters, &db.SearchFilter{Term: search})
	}

	facts, err := repo.Facts(filters...)
	if err != nil {
		return nil, export.Metadata{}, err
	}

	meta := export.Metadata{
		GeneratedAt: now,
		From:        from,
		To:          to,
		Now:         now,
		DayStart:    cfg.Database.DayStart,
	}
	return facts, meta, nil
}

// reportSkipped logs facts excluded from the export.
func reportSkipped(skipped []*models.Fact, includeOngoing bool) {
	for _, f := range skipped {
		if f.Ongoing() && !includeOngoing {
			logging.WithFields(log.Fields{"fact_id": f.ID}).
				Debug("skipping ongoing fact, use --include-ongoing to export it")
			continue
		}
		logging.WithFields(log.Fields{
			"fact_id": f.ID,
			"start":   f.Start.Format(models.TimeLayout),
			"end":     f.End.Format(models.TimeLayout),
		}).Warn("skipping fact with end before start")
	}
}

// writeExport renders to the output path, stdout for "-".
func writeExport(formatter export.Formatter, facts []*models.Fact, meta export.Metadata, output string) error {
	var w io.Writer = os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := formatter.Write(w, facts, meta); err != nil {
		return err
	}
	if output != "-" {
		logging.WithFields(log.Fields{
			"output": output,
			"format": formatter.Name(),
			"facts":  len(facts),
		}).Info("export written")
	}
	return nil
}

// writeArchive renders to memory and bundles the result into a tar.gz.
func writeArchive(formatter export.Formatter, facts []*models.Fact, meta export.Metadata, output string, now time.Time) error {
	var buf bytes.Buffer
	if err := formatter.Write(&buf, facts, meta); err != nil {
		return err
	}

	if output == "-" || output == "" {
		output = filepath.Join(cfg.Export.Dir,
			fmt.Sprintf("hamster_%s.tar.gz", now.Format("20060102_150405")))
	}

	name := "facts." + formatter.Extension()
	result, err := export.BuildArchive(output, map[string][]byte{name: buf.Bytes()}, len(facts), now)
	if err != nil {
		return err
	}

	logging.WithFields(log.Fields{
		"output":     result.FilePath,
		"size_bytes": result.SizeBytes,
		"checksum":   result.Checksum,
		"facts":      result.FactCount,
	}).Info("archive written")
	return nil
}

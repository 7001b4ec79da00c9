package main

import (
	"bytes"
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gdrius/hamster-export/internal/export"
	"github.com/gdrius/hamster-export/internal/export/scheduler"
	"github.com/gdrius/hamster-export/internal/models"
)

func newWatchCmd() *cobra.Command {
	var (
		interval  string
		retention int
		format    string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically export to timestamped archives",
		Long: `Run until interrupted, re-exporting all facts into a timestamped
tar.gz archive on the given interval. Older archives beyond the retention
count are pruned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Export.Format
			}
			formatter, err := export.Get(format)
			if err != nil {
				return err
			}

			switch scheduler.Interval(interval) {
			case scheduler.IntervalDaily, scheduler.IntervalWeekly, scheduler.IntervalMonthly:
			default:
				return fmt.Errorf("invalid --interval %q, expected daily, weekly or monthly", interval)
			}

			run := func(ctx context.Context, outputPath string) (*models.ExportArchive, error) {
				return exportArchive(formatter, outputPath)
			}

			sched := scheduler.New(run, scheduler.Config{
				Interval:       scheduler.Interval(interval),
				RetentionCount: retention,
				ExportDir:      cfg.Export.Dir,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := sched.Start(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&interval, "interval", "daily", "export interval: daily, weekly or monthly")
	cmd.Flags().IntVar(&retention, "retention", 0, "number of archives to keep, 0 keeps all")
	cmd.Flags().StringVar(&format, "format", "", fmt.Sprintf("bundled format: %v", export.Names()))

	return cmd
}

// exportArchive performs one full export run into an archive at outputPath.
func exportArchive(formatter export.Formatter, outputPath string) (*models.ExportArchive, error) {
	now := time.Now()
	facts, meta, err := queryFacts("", "", "", "", "", "", now)
	if err != nil {
		return nil, err
	}
	kept, skipped := export.Prepare(facts, export.Options{Now: now})
	reportSkipped(skipped, false)

	var buf bytes.Buffer
	if err := formatter.Write(&buf, kept, meta); err != nil {
		return nil, err
	}

	name := "facts." + formatter.Extension()
	return export.BuildArchive(outputPath, map[string][]byte{name: buf.Bytes()}, len(kept), now)
}

// Package scheduler provides periodic re-export with retention pruning.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gdrius/hamster-export/internal/logging"
	"github.com/gdrius/hamster-export/internal/models"
)

// Interval defines the scheduling frequency.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// ExportFunc performs one export run and returns the produced archive.
type ExportFunc func(ctx context.Context, outputPath string) (*models.ExportArchive, error)

// Config holds the scheduler configuration.
type Config struct {
	Interval       Interval // how often to export
	RetentionCount int      // number of archives to keep (0 = unlimited)
	ExportDir      string   // directory to store exports
}

// Scheduler re-runs an export on a fixed interval.
type Scheduler struct {
	run    ExportFunc
	config Config
	ticker *time.Ticker
	stopCh chan struct{}
	logger *log.Logger
}

// New creates a new export scheduler.
func New(run ExportFunc, config Config) *Scheduler {
	if config.ExportDir == "" {
		config.ExportDir = "exports"
	}
	if config.RetentionCount < 0 {
		config.RetentionCount = 0
	}

	return &Scheduler{
		run:    run,
		config: config,
		stopCh: make(chan struct{}),
		logger: logging.Get(),
	}
}

// Start begins periodic exports. An initial export runs immediately; the
// call blocks until the context is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	dur, err := s.intervalDuration()
	if err != nil {
		return err
	}

	s.ticker = time.NewTicker(dur)
	defer s.ticker.Stop()

	s.logger.WithFields(log.Fields{
		"interval":        s.config.Interval,
		"retention_count": s.config.RetentionCount,
		"export_dir":      s.config.ExportDir,
	}).Info("scheduler started")

	if err := s.runExport(ctx); err != nil {
		s.logger.WithError(err).Error("initial export failed")
	}

	for {
		select {
		case <-s.ticker.C:
			if err := s.runExport(ctx); err != nil {
				s.logger.WithError(err).Error("scheduled export failed")
			}
		case <-s.stopCh:
			s.logger.Info("scheduler stopped")
			return nil
		case <-ctx.Done():
			s.logger.Info("scheduler context cancelled")
			return ctx.Err()
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

// runExport performs a single export run with retention management.
func (s *Scheduler) runExport(ctx context.Context) error {
	timestamp := time.Now().Format("20060102_150405")
	outputPath := filepath.Join(s.config.ExportDir, fmt.Sprintf("hamster_%s.tar.gz", timestamp))

	archive, err := s.run(ctx, outputPath)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"file":       archive.FilePath,
		"size_bytes": archive.SizeBytes,
		"fact_count": archive.FactCount,
	}).Info("export completed")

	if s.config.RetentionCount > 0 {
		if err := s.applyRetention(); err != nil {
			// Retention failures never fail the export itself.
			s.logger.WithError(err).Error("retention pruning failed")
		}
	}
	return nil
}

// intervalDuration converts the interval to a time.Duration.
func (s *Scheduler) intervalDuration() (time.Duration, error) {
	switch s.config.Interval {
	case IntervalDaily:
		return 24 * time.Hour, nil
	case IntervalWeekly:
		return 7 * 24 * time.Hour, nil
	case IntervalMonthly:
		// Approximate as 30 days
		return 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown interval: %s", s.config.Interval)
	}
}

// applyRetention removes old archives beyond the retention count,
// oldest first.
func (s *Scheduler) applyRetention() error {
	archives, err := listArchives(s.config.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to list archives: %w", err)
	}
	if len(archives) <= s.config.RetentionCount {
		return nil
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].modTime.Before(archives[j].modTime)
	})

	for _, archive := range archives[:len(archives)-s.config.RetentionCount] {
		if err := os.Remove(archive.path); err != nil {
			s.logger.WithError(err).WithField("path", archive.path).
				Error("failed to delete old archive")
			continue
		}
		s.logger.WithField("path", archive.path).Info("deleted old archive")
	}
	return nil
}

type archiveEntry struct {
	path    string
	modTime time.Time
}

// listArchives returns the scheduler-produced archives in the export dir.
func listArchives(exportDir string) ([]archiveEntry, error) {
	entries, err := os.ReadDir(exportDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var archives []archiveEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, _ := filepath.Match("hamster_*.tar.gz", entry.Name())
		if !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archives = append(archives, archiveEntry{
			path:    filepath.Join(exportDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	return archives, nil
}

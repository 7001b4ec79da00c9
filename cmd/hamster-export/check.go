package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gdrius/hamster-export/internal/db"
	"github.com/gdrius/hamster-export/internal/models"
)

func newCheckCmd() *cobra.Command {
	var (
		fromStr string
		toStr   string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the database schema and report overlapping facts",
		Long: `Verify the configured database is a supported Hamster database, then
scan the given range for facts with inconsistent times and for facts whose
time ranges overlap. The database is never modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			from, to, err := resolveRange(fromStr, toStr, cfg.Database.DayStart, now)
			if err != nil {
				return err
			}

			conn, repo, err := openRepository()
			if err != nil {
				return err
			}
			defer conn.Close()

			schema, err := db.Check(conn)
			if err != nil {
				return err
			}
			fmt.Printf("schema: version %d, ok\n", schema.Version)

			var filters []db.Filter
			if !from.IsZero() || !to.IsZero() {
				filters = append(filters, &db.DateRangeFilter{From: from, To: to})
			}
			facts, err := repo.Facts(filters...)
			if err != nil {
				return err
			}

			issues := 0
			for _, f := range facts {
				if !f.Valid() {
					issues++
					fmt.Printf("fact %d (%s): ends %s before it starts %s\n",
						f.ID, f.Label(),
						f.End.Format(models.TimeLayout), f.Start.Format(models.TimeLayout))
				}
			}

			// Facts are ordered by start; tracking the running maximum end
			// finds every overlapping pair's first occurrence.
			var prev *models.Fact
			for _, f := range facts {
				if !f.Valid() {
					continue
				}
				if prev != nil && prev.Overlaps(f, now) {
					issues++
					fmt.Printf("facts %d (%s) and %d (%s) overlap\n",
						prev.ID, prev.Label(), f.ID, f.Label())
				}
				if prev == nil || endOf(f, now).After(endOf(prev, now)) {
					prev = f
				}
			}

			fmt.Printf("%d facts checked, %d issues\n", len(facts), issues)
			if issues > 0 {
				return fmt.Errorf("found %d issues", issues)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "range start: YYYY-MM-DD or today/yesterday/week/month")
	cmd.Flags().StringVar(&toStr, "to", "", "range end, inclusive day: YYYY-MM-DD")

	return cmd
}

func endOf(f *models.Fact, now time.Time) time.Time {
	if f.Ongoing() {
		return now
	}
	return f.End.Time
}

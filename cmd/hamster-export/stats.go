package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gdrius/hamster-export/internal/export"
	"github.com/gdrius/hamster-export/internal/report"
)

func newStatsCmd() *cobra.Command {
	var (
		fromStr  string
		toStr    string
		category string
		activity string
		tag      string
		rateStr  string
		round    int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals by activity, category, tag and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rateStr == "" {
				rateStr = cfg.Export.HourlyRate
			}
			if !cmd.Flags().Changed("round") {
				round = cfg.Export.RoundMinutes
			}

			var rate decimal.Decimal
			hasRate := rateStr != ""
			if hasRate {
				var err error
				rate, err = decimal.NewFromString(rateStr)
				if err != nil {
					return fmt.Errorf("invalid --rate %q: %w", rateStr, err)
				}
			}

			now := time.Now()
			facts, _, err := queryFacts(fromStr, toStr, category, activity, tag, "", now)
			if err != nil {
				return err
			}
			// Ongoing facts count toward totals up to now.
			kept, _ := export.Prepare(facts, export.Options{IncludeOngoing: true, Now: now})

			summary := report.Build(kept, report.Options{
				DayStart:     cfg.Database.DayStart,
				RoundMinutes: round,
				HourlyRate:   rate,
				HasRate:      hasRate,
				Now:          now,
			})

			renderSummary(summary, round, rate, hasRate)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "range start: YYYY-MM-DD or today/yesterday/week/month")
	cmd.Flags().StringVar(&toStr, "to", "", "range end, inclusive day: YYYY-MM-DD")
	cmd.Flags().StringVar(&category, "category", "", "only facts in this category")
	cmd.Flags().StringVar(&activity, "activity", "", "only facts for this activity")
	cmd.Flags().StringVar(&tag, "tag", "", "only facts carrying this tag")
	cmd.Flags().StringVar(&rateStr, "rate", "", "hourly rate for billable amounts, e.g. 85.00")
	cmd.Flags().IntVar(&round, "round", 0, "round durations to N-minute increments")

	return cmd
}

func renderSummary(s *report.Summary, round int, rate decimal.Decimal, hasRate bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	section := func(title string, buckets []report.Bucket) {
		if len(buckets) == 0 {
			return
		}
		fmt.Fprintf(w, "%s\tDURATION\tFACTS", title)
		if hasRate {
			fmt.Fprint(w, "\tAMOUNT")
		}
		fmt.Fprintln(w)
		for _, b := range buckets {
			d := report.Round(b.Total, round)
			fmt.Fprintf(w, "%s\t%s\t%d", b.Name, formatHours(d), b.Count)
			if hasRate {
				fmt.Fprintf(w, "\t%s", report.Amount(d, rate).StringFixed(2))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	section("ACTIVITY", s.ByActivity)
	section("CATEGORY", s.ByCategory)
	section("TAG", s.ByTag)
	section("DAY", s.ByDay)

	total := report.Round(s.Total, round)
	fmt.Fprintf(w, "TOTAL\t%s\t%d", formatHours(total), s.FactCount)
	if hasRate {
		fmt.Fprintf(w, "\t%s", report.Amount(total, rate).StringFixed(2))
	}
	fmt.Fprintln(w)
}

// formatHours renders a duration as H:MM.
func formatHours(d time.Duration) string {
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

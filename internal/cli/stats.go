package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/stats"
	"github.com/rpggio/watchlog/internal/repository"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show activity statistics for saved entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().StringP("subject", "s", "", "Limit statistics to one subject")
	cmd.Flags().String("timezone", "", "IANA timezone for hour buckets (default: tracker.timezone or local)")

	return cmd
}

func runStats(cmd *cobra.Command, opts *rootOptions) error {
	subject, _ := cmd.Flags().GetString("subject")
	tz, _ := cmd.Flags().GetString("timezone")

	loc := opts.location()
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
	}

	db, err := opts.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := sqlite.NewSnapshotRepository(db).ListEntries(cmd.Context(), repository.ListEntriesOptions{
		SubjectID: subject,
	})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	report := stats.Compute(entries, stats.Options{Location: loc, SubjectID: subject})
	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return writeReport(cmd.OutOrStdout(), report)
}

func writeReport(w io.Writer, r stats.Report) error {
	if r.SubjectID != "" {
		fmt.Fprintf(w, "Subject: %s\n", r.SubjectID)
	}
	fmt.Fprintf(w, "Total entries: %d\n", r.TotalEntries)
	for _, c := range entry.Categories {
		fmt.Fprintf(w, "  %s: %d\n", c.Label(), r.CategoryCounts[c])
	}
	if r.BusiestHour < 0 {
		fmt.Fprintln(w, "Busiest hour: none")
	} else {
		fmt.Fprintf(w, "Busiest hour: %02d:00 (%d entries)\n", r.BusiestHour, r.HourCounts[r.BusiestHour])
	}
	fmt.Fprintf(w, "Voice minutes: %d\n", r.TotalVoiceMinutes)
	if len(r.TopActivities) > 0 {
		fmt.Fprintln(w, "Top activities:")
		for _, a := range r.TopActivities {
			fmt.Fprintf(w, "  %s: %d\n", a.Name, a.Count)
		}
	}
	if len(r.SubjectCounts) > 0 {
		fmt.Fprintln(w, "Subjects:")
		for _, s := range r.SubjectCounts {
			fmt.Fprintf(w, "  %s (%s): %d\n", s.DisplayName, s.SubjectID, s.Count)
		}
	}
	return nil
}

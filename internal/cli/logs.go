package cli

import (
	"fmt"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/repository"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/spf13/cobra"
)

func newLogsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List saved log entries",
		Long:  "List the most recent saved log entries, oldest first. Filter by subject with -s and by category with -c.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().StringP("subject", "s", "", "Filter by subject id")
	cmd.Flags().StringP("category", "c", "", "Filter by category: presence, voice, message or status")
	cmd.Flags().IntP("limit", "l", 50, "Max entries (0 for all)")

	return cmd
}

func runLogs(cmd *cobra.Command, opts *rootOptions) error {
	subject, _ := cmd.Flags().GetString("subject")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	cat := entry.Category(category)
	if cat != "" && !cat.Valid() {
		return fmt.Errorf("unknown category %q", category)
	}
	if limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	db, err := opts.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := sqlite.NewSnapshotRepository(db).ListEntries(cmd.Context(), repository.ListEntriesOptions{
		SubjectID: subject,
		Category:  cat,
		Limit:     limit,
	})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), entry.Records(entries))
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no entries")
		return err
	}
	return entry.WriteText(cmd.OutOrStdout(), entries, opts.location())
}

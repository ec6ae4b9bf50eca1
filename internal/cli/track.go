package cli

import (
	"fmt"
	"strconv"

	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/spf13/cobra"
)

func newTrackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track <subject-id>...",
		Short: "Add subjects to the saved tracked set",
		Long:  "Add subjects to the saved tracked set.\n\n" + offlineWriteNote,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTracking(cmd, opts, func(e *tracker.Engine) error {
				for _, id := range args {
					if err := e.Track(id); err != nil {
						return fmt.Errorf("track %q: %w", id, err)
					}
				}
				return nil
			})
		},
	}
}

func newUntrackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "untrack <subject-id>...",
		Short: "Remove subjects from the saved tracked set",
		Long:  "Remove subjects from the saved tracked set. Their logged entries are kept.\n\n" + offlineWriteNote,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTracking(cmd, opts, func(e *tracker.Engine) error {
				for _, id := range args {
					if err := e.Untrack(id); err != nil {
						return fmt.Errorf("untrack %q: %w", id, err)
					}
				}
				return nil
			})
		},
	}
}

func newTrackAllCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track-all <true|false>",
		Short: "Set the saved track-everyone flag",
		Long:  "Set the saved track-everyone flag.\n\n" + offlineWriteNote,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid flag value %q: %w", args[0], err)
			}
			return updateTracking(cmd, opts, func(e *tracker.Engine) error {
				e.SetTrackAll(enabled)
				return nil
			})
		},
	}
}

func newTrackedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tracked",
		Short: "List saved tracked subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			snap, err := loadSnapshot(cmd, sqlite.NewSnapshotRepository(db))
			if err != nil {
				return err
			}
			return writeTracked(cmd, opts, snap.Tracked, snap.TrackAll)
		},
	}
}

// updateTracking loads the saved snapshot into an engine, applies fn and saves
// the result when anything changed.
func updateTracking(cmd *cobra.Command, opts *rootOptions, fn func(*tracker.Engine) error) error {
	db, err := opts.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := sqlite.NewSnapshotRepository(db)
	snap, err := loadSnapshot(cmd, repo)
	if err != nil {
		return err
	}

	engine := opts.newEngine()
	if err := engine.Restore(snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	before := engine.Version()
	if err := fn(engine); err != nil {
		return err
	}
	if engine.Version() != before {
		if err := engine.Save(cmd.Context(), repo); err != nil {
			return err
		}
	}
	return writeTracked(cmd, opts, engine.ListTracked(), engine.TrackAll())
}

func writeTracked(cmd *cobra.Command, opts *rootOptions, tracked []string, trackAll bool) error {
	if tracked == nil {
		tracked = []string{}
	}
	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"tracked":   tracked,
			"track_all": trackAll,
		})
	}
	out := cmd.OutOrStdout()
	if trackAll {
		fmt.Fprintln(out, "track-all: on")
	}
	if len(tracked) == 0 {
		_, err := fmt.Fprintln(out, "no tracked subjects")
		return err
	}
	for _, id := range tracked {
		fmt.Fprintln(out, id)
	}
	return nil
}

// Package cli implements the watchlog command line for inspecting and
// maintaining a saved tracker database without running the server.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rpggio/watchlog/internal/config"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	formatJSON = "json"
	formatText = "text"
)

// offlineWriteNote is appended to the help of commands that rewrite the saved
// snapshot. A running server saves its own in-memory state over the same tables.
const offlineWriteNote = "Stop the watchlog server first: its periodic save replaces the saved log and tracked set, discarding changes made here."

type rootOptions struct {
	dbPath string
	format string
	cfg    config.Config
}

// NewRootCmd builds the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "watchlog",
		Short:         "Inspect and maintain a watchlog database",
		Long:          "Reads and edits the SQLite database written by the watchlog server: logs, statistics, exports and the tracked-subject list.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg
			if opts.dbPath == "" {
				opts.dbPath = cfg.DB.Path
			}
			switch opts.format {
			case formatJSON, formatText:
				return nil
			default:
				return fmt.Errorf("unknown format %q (want json or text)", opts.format)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "Database path (default: $WATCHLOG_DB_PATH or db.path from the config file)")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", formatText, "Output format: json or text")

	cmd.AddCommand(
		newLogsCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newTrackCmd(opts),
		newUntrackCmd(opts),
		newTrackedCmd(opts),
		newTrackAllCmd(opts),
		newNamesCmd(opts),
	)
	return cmd
}

func (o *rootOptions) openDB() (*sqlite.DB, error) {
	db, err := sqlite.New(o.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (o *rootOptions) location() *time.Location {
	loc, err := o.cfg.Tracker.Location()
	if err != nil || loc == nil {
		return time.Local
	}
	return loc
}

// newEngine returns an engine configured like the server's, without names or
// notifications.
func (o *rootOptions) newEngine() *tracker.Engine {
	return tracker.NewEngine(tracker.Config{
		LogCapacity: o.cfg.Tracker.LogCapacity,
		DedupLimit:  o.cfg.Tracker.DedupLimit,
		DedupKeep:   o.cfg.Tracker.DedupKeep,
		TrackAll:    o.cfg.Tracker.TrackAll,
		Tracked:     o.cfg.Tracker.Tracked,
		Location:    o.location(),
	}, nil, nil, nil)
}

// loadSnapshot reads the saved snapshot, treating an empty database as an
// empty snapshot. Corrupt data is an error so a later save cannot wipe it.
func loadSnapshot(cmd *cobra.Command, repo *sqlite.SnapshotRepository) (tracker.Snapshot, error) {
	snap, err := repo.Load(cmd.Context())
	if errors.Is(err, tracker.ErrNoSnapshot) {
		return tracker.Snapshot{Tracked: []string{}}, nil
	}
	if err != nil {
		return tracker.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

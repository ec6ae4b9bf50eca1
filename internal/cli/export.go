package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved log",
		Long:  "Export the saved log and tracked subjects. JSON output (-f json) can be read back with import; text output is for reading.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringP("subject", "s", "", "Limit text output to one subject")

	return cmd
}

func runExport(cmd *cobra.Command, opts *rootOptions) error {
	subject, _ := cmd.Flags().GetString("subject")

	db, err := opts.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := loadSnapshot(cmd, sqlite.NewSnapshotRepository(db))
	if err != nil {
		return err
	}
	engine := opts.newEngine()
	if err := engine.Restore(snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	if opts.format == formatJSON {
		data, err := engine.ExportJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), engine.ExportText(subject))
	return err
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the saved log with a JSON export",
		Long:  "Replace the saved log and tracked subjects with a document produced by export -f json. Reads stdin when no file is given.\n\n" + offlineWriteNote,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args)
		},
	}
}

func runImport(cmd *cobra.Command, opts *rootOptions, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	snap, err := tracker.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	engine := opts.newEngine()
	if err := engine.Restore(snap); err != nil {
		return err
	}

	db, err := opts.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := engine.Save(cmd.Context(), sqlite.NewSnapshotRepository(db)); err != nil {
		return err
	}

	saved := engine.Snapshot()
	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"ok":       true,
			"imported": len(saved.Logs),
			"tracked":  len(saved.Tracked),
		})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, %d tracked subjects\n", len(saved.Logs), len(saved.Tracked))
	return err
}

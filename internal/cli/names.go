package cli

import (
	"errors"
	"fmt"

	"github.com/rpggio/watchlog/internal/names"
	"github.com/rpggio/watchlog/internal/repository"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/spf13/cobra"
)

func newNamesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Manage display names for channels, guilds and subjects",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <channel|guild|subject> <id> <name>",
			Short: "Set a display name",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := opts.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				dir := names.NewDirectory(sqlite.NewNameRepository(db), nil)
				n := names.Name{Kind: names.Kind(args[0]), ID: args[1], Name: args[2]}
				if err := dir.Set(cmd.Context(), n); err != nil {
					return err
				}
				if opts.format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), n)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", n.Kind, n.ID, n.Name)
				return err
			},
		},
		&cobra.Command{
			Use:   "get <channel|guild|subject> <id>",
			Short: "Show one display name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := opts.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				n, err := sqlite.NewNameRepository(db).Get(cmd.Context(), names.Kind(args[0]), args[1])
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no name for %s %s", args[0], args[1])
				}
				if err != nil {
					return err
				}
				if opts.format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), n)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n.Name)
				return err
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every display name",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := opts.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				all, err := sqlite.NewNameRepository(db).All(cmd.Context())
				if err != nil {
					return err
				}
				if all == nil {
					all = []names.Name{}
				}
				if opts.format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), all)
				}
				for _, n := range all {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", n.Kind, n.ID, n.Name)
				}
				return nil
			},
		},
	)
	return cmd
}

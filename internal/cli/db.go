package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrlokans/marcdemo/internal/database"
	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/entrypoint"
)

var errNotConfirmed = errors.New("refusing to drop the database without --yes-i-know")

func newDBCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the database itself",
			Long: `Create the database if the backend allows it. For SQLite this
creates the parent directory and the file; server backends only get a
connectivity check.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				// The SQLite driver cannot create missing directories, so
				// this runs before the database is opened.
				target, err := database.ParseURI(state.cfg.Database.URI)
				if err != nil {
					return err
				}
				if path := target.FilePath(); path != "" {
					if dir := filepath.Dir(path); dir != "." {
						if err := os.MkdirAll(dir, 0755); err != nil {
							return fmt.Errorf("failed to create database directory: %w", err)
						}
					}
				}
				return withApp(state, func(app *entrypoint.App) error {
					return app.DB.Ping()
				})
			},
		},
		&cobra.Command{
			Use:   "create",
			Short: "Create all tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(state, func(app *entrypoint.App) error {
					err := app.DB.Migrate()
					app.Audit.LogOperation(entities.AuditEventSchema, "db_create", "Created database tables", nil, err)
					return err
				})
			},
		},
		newDBDropCmd(state),
	)

	return cmd
}

func newDBDropCmd(state *rootState) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errNotConfirmed
			}
			return withApp(state, func(app *entrypoint.App) error {
				return app.DB.DropAll()
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes-i-know", false, "Confirm that all data will be lost")
	return cmd
}

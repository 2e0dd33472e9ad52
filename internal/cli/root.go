// Package cli implements the marcdemo command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrlokans/marcdemo/internal/config"
	"github.com/mrlokans/marcdemo/internal/entrypoint"
	"github.com/mrlokans/marcdemo/internal/logging"
)

// rootState is filled before any subcommand runs.
type rootState struct {
	cfg *config.Config
	log *logrus.Logger
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCmd(version string) *cobra.Command {
	state := &rootState{}

	cmd := &cobra.Command{
		Use:           "marcdemo",
		Short:         "MARC21 demo site",
		Long:          "A demo site for bibliographic records with persistent identifiers.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			state.cfg = config.NewConfig()

			level := state.cfg.Global.ResolvedLogLevel()
			// Maintenance commands stay quiet unless LOG_LEVEL asks otherwise
			if !isServe(cmd) && state.cfg.Global.LogLevel == "" {
				level = "warn"
			}
			state.log = logging.NewWithOutput(level, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(state.cfg, state.log, version)
		},
	}

	cmd.AddCommand(
		newServeCmd(state, version),
		newDBCmd(state),
		newRecordsCmd(state),
		newFixturesCmd(state),
		newAssetsCmd(state),
		newIndexCmd(state),
	)

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newServeCmd(state *rootState, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(state.cfg, state.log, version)
		},
	}
}

func isServe(cmd *cobra.Command) bool {
	return cmd.Name() == "serve" || !cmd.HasParent()
}

// withApp opens the application for the duration of fn.
func withApp(state *rootState, fn func(app *entrypoint.App) error) error {
	app, err := entrypoint.NewApp(state.cfg, state.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			state.log.WithError(err).Warn("Error closing database")
		}
	}()
	return fn(app)
}

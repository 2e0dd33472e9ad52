package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/marcdemo/internal/entrypoint"
)

func newIndexCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Search index management",
	}

	var async bool
	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(state, func(app *entrypoint.App) error {
				if async {
					taskClient, err := app.NewTaskClient()
					if err != nil {
						return err
					}
					if taskClient == nil {
						return fmt.Errorf("--async needs TASKS_ENABLED=true")
					}
					defer taskClient.Close()
					return app.Reindex(cmd.Context(), taskClient)
				}

				count, err := app.ReindexNow(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d records\n", count)
				return nil
			})
		},
	}
	reindex.Flags().BoolVar(&async, "async", false, "Enqueue the rebuild for the server's task workers")

	cmd.AddCommand(reindex)
	return cmd
}

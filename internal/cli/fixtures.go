package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/marcdemo/internal/entrypoint"
)

func newFixturesCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Demo data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "records",
		Short: "Mint a persistent identifier for every record",
		Long: `Mint a recid for every stored record. All identifiers are committed
together; if any minting fails nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(state, func(app *entrypoint.App) error {
				taskClient, err := app.NewTaskClient()
				if err != nil {
					return err
				}
				if taskClient != nil {
					defer taskClient.Close()
				}

				_, err = app.LoadFixtures(cmd.Context(), taskClient)
				return err
			})
		},
	})

	return cmd
}

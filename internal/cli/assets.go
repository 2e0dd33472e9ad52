package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mrlokans/marcdemo/internal/assets"
)

func newAssetsCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Static asset bundles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Build versioned bundles and the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := assets.NewDefaultEnvironment(state.cfg.Theme.StaticPath, state.cfg.Assets.OutputDir)
			manifest, err := env.Build()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(manifest))
			for name := range manifest {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", name, manifest[name])
			}
			return nil
		},
	})

	return cmd
}

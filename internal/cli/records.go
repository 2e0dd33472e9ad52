package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/marcdemo/internal/entrypoint"
	"github.com/mrlokans/marcdemo/internal/fixtures"
)

func newRecordsCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Record management",
	}

	cmd.AddCommand(newRecordsCreateCmd(state))
	return cmd
}

func newRecordsCreateCmd(state *rootState) *cobra.Command {
	var (
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create records from JSON or MARCXML",
		Long: `Create one record per document read from --input (or stdin).

JSON input may be an array of objects, a single object or one object per
line. MARCXML input is a <collection> of <record> elements. All records
are created in one transaction and their ids are printed one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				r = f
			}

			docs, err := fixtures.ReadRecords(r, format)
			if err != nil {
				return err
			}

			return withApp(state, func(app *entrypoint.App) error {
				source := input
				if source == "" {
					source = "stdin"
				}
				created, err := app.ImportRecords(docs, source)
				if err != nil {
					return err
				}
				for _, record := range created {
					fmt.Fprintln(cmd.OutOrStdout(), record.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (default: stdin)")
	cmd.Flags().StringVar(&format, "format", fixtures.FormatJSON, "Input format: json or marcxml")
	return cmd
}

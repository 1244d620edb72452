package cli

import (
	"fmt"

	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/importer"
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect seed files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a seed file without loading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateSeed(seed); len(errs) > 0 {
				return importer.FormatErrors(errs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d tasks\n",
				formatter.StyleGreen.Render("✔"), args[0], len(seed.Tasks))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "Print the built-in sample board as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(importer.DefaultSeedYAML())
			return err
		},
	})
	return cmd
}

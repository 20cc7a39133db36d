package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [config-file]",
		Short: "Print the document with every placeholder resolved",
		Long: `Resolves all environment placeholders in the given config file and prints
the resulting document to stdout. Without an argument the default config
file in the current directory is used (Config.toml for TOML).

Resolved secret values appear literally in the output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := newLoader(cmd)
			if err != nil {
				return err
			}

			var resolved string
			if len(args) == 1 {
				resolved, err = loader.ResolveFile(args[0])
			} else {
				resolved, err = loader.ResolveDefault()
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), resolved)
			return nil
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"envoverlay/pkg/envoverlay"
)

var (
	checkOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	checkFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [config-file]",
		Short: "Verify that every placeholder in the document resolves",
		Long: `Parses the given config file and resolves all environment placeholders,
reporting every missing required variable in one pass. Without an argument
the default config file in the current directory is used.

Exits non-zero when the document cannot be fully resolved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := newLoader(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				_, err = loader.ResolveFile(args[0])
			} else {
				_, err = loader.ResolveDefault()
			}
			if err != nil {
				causes := envoverlay.Errors(err)
				for _, cause := range causes {
					fmt.Fprintln(cmd.ErrOrStderr(), checkFailStyle.Render("✗ "+cause.Error()))
				}
				return fmt.Errorf("configuration check failed with %d problem(s)", len(causes))
			}

			fmt.Fprintln(cmd.OutOrStdout(), checkOKStyle.Render("✓ configuration resolves cleanly"))
			return nil
		},
	}
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"envoverlay/pkg/envoverlay"
	"envoverlay/pkg/logging"
)

var (
	formatFlag   string
	logLevelFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "envoverlay",
	Short: "Resolve environment placeholders in configuration files",
	Long: `envoverlay lets a single configuration file serve multiple deployment
environments. String values of the form <<ENV:NAME>> are replaced with the
NAME environment variable and fail when it is unset; <<ENV?:NAME>> values
are replaced when NAME is set and dropped when it is not. All other values
stay literal.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. missing variables, unreadable files)
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevelFlag)
		if err != nil {
			return err
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
		return nil
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "envoverlay version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "toml", "document format (toml or yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// newLoader builds a loader from the persistent flags. The loader logs
// through the slog default installed in PersistentPreRunE.
func newLoader(cmd *cobra.Command) (*envoverlay.Loader, error) {
	formatOpt, err := envoverlay.WithFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	return envoverlay.New(formatOpt), nil
}

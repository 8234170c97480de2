package cli

import (
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is reported by --version
var Version = "dev"

// NewRootCmd creates the img2pdf command tree
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "img2pdf",
		Short: "Assemble images into a paginated PDF",
		Long: `img2pdf lays out an ordered set of images on pages of a fixed format,
one or several per page, and writes them as a single PDF document.

Settings are read from the TOML file named by --config (or the IMG2PDF_CONFIG
environment variable) and can be overridden by flags. A .env file in the
working directory is loaded first.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("config", "", "TOML configuration file (default $"+configEnv+")")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newEstimateCmd())

	return root
}

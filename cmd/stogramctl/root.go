package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"stogramctl/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile   string
	databasePath string
	logLevel     string
	quiet        bool
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stogramctl",
	Short: "A 4K Stogram companion for fetching Instagram media with gallery-dl",
	Long: `stogramctl drives the external gallery-dl binary to fetch Instagram media
for users tracked in a 4K Stogram database, then records every downloaded
file (and an extracted video thumbnail) as a row in that database so the
Stogram library stays in sync.

The database file is auto-discovered in the working directory by its
.stogram.sqlite suffix, or picked explicitly with --database.

Commands:
  subscribe   register a new username in the subscriptions table
  fetch       run gallery-dl for a user and reconcile the results
  import      push existing files through the same reconciliation pipeline
  users       list tracked subscriptions`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel = resolveLogLevel(logLevel, cmd.Flags().Changed("log-level"), verbose)

		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		// Don't show logo for certain commands
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// resolveLogLevel applies --verbose to the log level. An explicit
// --log-level always wins.
func resolveLogLevel(level string, levelSet, verbose bool) string {
	if verbose && !levelSet {
		return "debug"
	}
	return level
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.stogramctl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&databasePath, "database", "d", "", "Stogram database file (default: auto-discover by suffix)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging (shorthand for --log-level debug)")

	// Version template
	rootCmd.SetVersionTemplate(`stogramctl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

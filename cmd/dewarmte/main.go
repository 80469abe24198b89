// Dewarmte is a command-line client for DeWarmte heat-pump cloud accounts.
//
// It discovers the account's devices, polls status telemetry, and reads or
// changes device settings through the vendor's partitioned settings API.
//
// Usage:
//
//	dewarmte [command] [flags]
//
// Credentials come from the DEWARMTE_EMAIL and DEWARMTE_PASSWORD
// environment variables; missing values are prompted interactively.
// See 'dewarmte --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ronald-willems/godewarmte/internal/logging"
	"github.com/ronald-willems/godewarmte/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dewarmte",
	Short: "DeWarmte Heat-Pump Cloud Client",
	Long: `A command-line client for DeWarmte heat-pump cloud accounts.

Discovers devices on the account, polls status telemetry, and reads or
changes operation settings (heat curve, sound, cooling, warm water, ...)
through the vendor cloud API.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dewarmte %s (commit: %s)\n", version.Version, version.Commit)
	},
}

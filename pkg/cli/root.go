// Package cli implements the decider command line: serve, validate, init,
// and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "decider",
	Short: "decider is an HTTP decision engine server",
	Long: `decider computes HTTP responses by walking a fixed decision graph derived
from the HTTP specification's content-negotiation, conditional-request, and
method-semantics rules.

Routes and resource behavior are declared in a YAML or JSON configuration
file; see 'decider init' for a starter.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/refactorlab/dupfind/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dupfind",
	Short: "A Multi-Strategy Duplicate Code Detector for JavaScript and TypeScript",
	Long: `dupfind finds duplicated code in JavaScript and TypeScript projects
using multiple block extraction strategies and a fused similarity score
built from token, line, structural, sequence, and size signals.

Features:
  • Function, class, statement, and sliding-window block extraction
  • Exact clone grouping via content hashing
  • Fuzzy clone grouping with a five-signal fused similarity score
  • Refactoring suggestions for every clone group`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewDetectCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

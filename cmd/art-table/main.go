// Package main is the entry point for the art-table CLI.
//
// art-table serves a selection-aware view of a server-paginated collection:
// selections survive page navigation and a bulk-select picks the first N
// records of the whole collection.
//
// Usage:
//
//	art-table serve -c config.yaml    # Start the session API
//	art-table version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "art-table",
	Short: "Selection engine for a server-paginated collection",
	Long: `art-table serves a paginated record collection with persistent
row selection. The selection survives page navigation, and a bulk-select
request fetches as many pages as needed to select the first N records of
the entire collection.

Quick start:
  1. Create a config file (art-table.yaml)
  2. Run: art-table serve -c art-table.yaml
  3. Query http://localhost:8080/api/page?n=1`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("art-table %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

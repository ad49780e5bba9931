package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Overridden at release time, e.g.
//
//	go build -ldflags "-X main.version=v1.2.3 -X main.commit=$(git rev-parse --short HEAD) -X main.date=$(date -u +%Y-%m-%d)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sizescope",
		Short: "Inspect and compare binary-size reports for CI builds",
		Long: `sizescope renders build-size listings as a navigable artifact tree and
diffs the listings of the two most recent completed CI builds of a branch,
emitting added/removed/unchanged/changed records with byte and gzip deltas.`,
		Version:       version + " (commit: " + commit + ", built at: " + date + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newViewCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

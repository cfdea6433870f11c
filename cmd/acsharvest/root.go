// Package main provides the entry point for the acsharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for acsharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acsharvest",
		Short: "Harvest Anomaly Classification System metadata from the SCP wiki",
		Long: `acsharvest walks the SCP wiki and builds a JSON database of Anomaly
Classification System metadata: containment, disruption, and risk classes
for every item page that carries them.

The harvest runs in phases: collecting display names from the series
listings, scraping the numbered item range, harvesting classification
component backlinks, and reconciling the discovered pages into the
database. Phases are selected with flags and compose across invocations.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

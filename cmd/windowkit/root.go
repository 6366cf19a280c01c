package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "windowkit",
	Short: "Declarative window composition runtime for multi-user hosts",
	Long: `Windowkit expands declarative window trees, resolves handler names
and tracks per-user window state for a multi-user host application.

This binary runs the reference headless host with a JSON inspector,
useful for validating module manifests and window definitions and for
driving the composition layer from tests or scripts.

Quick start:
  windowkit serve     # Start the headless host and inspector
  windowkit validate  # Validate config, manifests and window definitions
  windowkit modules   # Print the module catalog`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "windowkit.yaml", "config file path")
}

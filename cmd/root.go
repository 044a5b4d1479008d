// Package cmd contains the CLI commands for the bcgen application.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// jsonOutput holds the global --json flag state.
var jsonOutput bool

// logLevel is raised to debug by --verbose before any command runs.
var logLevel = new(slog.LevelVar)

func init() {
	rootCmd = BuildCommandTree(newGenerateAdapter(), newVerifyAdapter(), configAdapter{})
}

// GetVerbose returns the current verbose flag state.
func GetVerbose() bool {
	return verbose
}

// GetJSON returns the current --json flag state.
func GetJSON() bool {
	return jsonOutput
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bcgen",
		Short: "Generate constrained DNA barcode libraries",
		Long: `bcgen builds libraries of DNA barcodes with a fixed GC content, no
homopolymer or dimer repeats, and a minimum pairwise Hamming distance.`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logLevel.Set(slog.LevelDebug)
			} else {
				logLevel.Set(slog.LevelInfo)
			}
		},
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

// BuildCommandTree creates the root command and registers every subcommand
// with the given runners.
func BuildCommandTree(gen GenerateRunner, ver VerifyRunner, cfg ConfigWriter) *cobra.Command {
	root := NewRootCmd()
	root.AddCommand(NewGenerateCmd(gen))
	root.AddCommand(NewVerifyCmd(ver))
	root.AddCommand(NewConfigCmd(cfg))
	return root
}

// Root returns the fully wired command tree.
func Root() *cobra.Command {
	return rootCmd
}

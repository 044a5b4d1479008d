package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigWriter defines the interface for writing a default config file.
type ConfigWriter interface {
	WriteDefault(path string) error
}

// NewConfigCmd creates the config command group with the given writer.
func NewConfigCmd(writer ConfigWriter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage parameter files",
	}
	cmd.AddCommand(newConfigInitCmd(writer))
	return cmd
}

func newConfigInitCmd(writer ConfigWriter) *cobra.Command {
	return &cobra.Command{
		Use:          "init [path]",
		Short:        "Write a parameter file holding the defaults",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "bcgen.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := writer.WriteDefault(path); err != nil {
				return &ContextError{Op: "config init", Err: err}
			}
			if GetJSON() {
				writeJSON(cmd.OutOrStdout(), map[string]string{"path": path})
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

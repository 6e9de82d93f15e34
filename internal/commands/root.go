package commands

import (
	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every command
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand creates the homefiles command tree. Without a subcommand it
// serves, so running the bare binary starts both interfaces.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "homefiles",
		Short:         "Share local files and folders with devices on your network",
		Long:          "Home Files serves a curated list of paths over an admin interface bound to loopback and a public interface reachable from the local network.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to config.yaml (searched in ., $HOME/.homefiles and /etc/homefiles when empty)")

	cobra.EnableCommandSorting = false
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

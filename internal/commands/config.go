package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KYD-04/Home-Files/config"
)

// NewConfigCommand creates the config command group
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(opts))
	cmd.AddCommand(newConfigShowCommand(opts))
	return cmd
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config.yaml with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.ConfigFile
			if path == "" {
				path = config.DefaultFileName
			}
			created, err := config.EnsureFile(path)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
			}
			return nil
		},
	}
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := cfg.File
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintf(out, "config file:        %s\n", source)
			fmt.Fprintf(out, "admin interface:    %s\n", cfg.Server.Admin.Addr())
			fmt.Fprintf(out, "public interface:   %s\n", cfg.Server.Public.Addr())
			fmt.Fprintf(out, "shutdown timeout:   %s\n", cfg.Server.ShutdownTimeout)
			fmt.Fprintf(out, "registry:           %s\n", cfg.Data.RegistryFile())
			fmt.Fprintf(out, "upload path:        %s\n", cfg.Upload.Path)
			fmt.Fprintf(out, "max file size:      %d\n", cfg.Upload.MaxFileSize)
			fmt.Fprintf(out, "allowed extensions: %v\n", cfg.Upload.AllowedExtensions)
			return nil
		},
	}
}

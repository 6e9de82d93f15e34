package commands

import (
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/KYD-04/Home-Files/internal/version"
)

// VersionOptions holds command options
type VersionOptions struct {
	OutputFormat string
	ShortFormat  bool
}

const versionTemplate = `Home Files:
 Version:           {{.Version}}
 Go version:        {{.GoVersion}}
 Git commit:        {{.GitCommit}}
 Built:             {{.FormattedTime}}
 OS/Arch:           {{.OS}}/{{.Arch}}
`

// NewVersionCommand creates a new version command
func NewVersionCommand() *cobra.Command {
	opts := &VersionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()

			if opts.ShortFormat {
				fmt.Fprintf(out, "homefiles version %s, build %s\n", info.Version, info.GitCommit)
				return nil
			}

			switch opts.OutputFormat {
			case "json":
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format version as JSON: %v", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			case "text":
				tmpl, err := template.New("version").Parse(versionTemplate)
				if err != nil {
					return fmt.Errorf("failed to parse version template: %v", err)
				}
				return tmpl.Execute(out, info)
			default:
				return fmt.Errorf("invalid output format %q, must be json or text", opts.OutputFormat)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.OutputFormat, "output", "text", "Output format (json or text)")
	flags.BoolVarP(&opts.ShortFormat, "short", "s", false, "Print only the version number")

	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

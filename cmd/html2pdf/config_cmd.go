package main

import (
	"github.com/spf13/cobra"

	"github.com/alnah/go-html2pdf/internal/config"
)

func getConfigCmd(root *rootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration profiles",
		Long: `Profiles are YAML files passed with --config, either as a path or as a name
looked up as NAME.yaml or NAME.yml in the current directory and then in the
user config directory (e.g. ~/.config/html2pdf/NAME.yaml).

Precedence: defaults < profile < HTML2PDF_* environment < flags.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "defaults",
			Short: "Print a profile holding the built-in defaults",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(*cobra.Command, []string) error {
				return writeConfig(root, config.DefaultConfig())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective profile after file and environment overrides",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(*cobra.Command, []string) error {
				return writeConfig(root, root.cfg)
			},
		},
	)

	return cmd
}

func writeConfig(root *rootCommand, cfg *config.Config) error {
	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = root.env.Stdout.Write(data)
	return err
}

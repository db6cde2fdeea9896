package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/suggest-engine/internal/config"
)

// NewInitCmd creates the 'init' command.
func NewInitCmd() *cobra.Command {
	var force bool
	var endpoint string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a config file with default settings to ~/.suggest-engine/config.yaml
(or the path given by --config). Existing files are kept unless --force is set.`,
		Example: `  suggest-engine init --endpoint https://ideas.example.com/v1/generate`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globals.configPath
			if path == "" {
				p, err := config.GetDefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s\n\n💡 Use --force to overwrite (a .bak copy is kept)", path)
			}

			cfg := config.Default()
			cfg.Generator.Endpoint = endpoint

			if err := config.Save(cfg, path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Wrote %s\n", path)
			if endpoint == "" {
				fmt.Fprintln(out, "\nSet generator.endpoint before running 'suggest-engine suggest'.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Generation service URL")

	return cmd
}

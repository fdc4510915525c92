package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/bouquinsctl/internal/config"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		baseURL string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Example: `  bouquinsctl config init
  bouquinsctl config init --server http://books.lan:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ResolvePath(flagConfig)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			c := config.Default()
			if baseURL != "" {
				c.Server.BaseURL = baseURL
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if err := config.Save(path, c); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "server", "", "bouquins server URL")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration after defaults, the config file and BOUQUINS_* environment overrides are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.WriteYAML(cmd.OutOrStdout(), cfg)
		},
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidConfig, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

// configFile is --config when given, the default location otherwise.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

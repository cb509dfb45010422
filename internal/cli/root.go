package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The logger is attached to each command's context in PersistentPreRun, so
// long-running commands (watch, serve) can retrieve it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Arbor lays out and renders tree diagrams",
		Long:         `Arbor is a CLI tool for editing tree diagrams and laying them out as tidy, top-down drawings in SVG, PNG, JPEG, JSON or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/arbor/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

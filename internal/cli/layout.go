package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/pipeline"
)

// layoutFlags are the spacing overrides shared by layout, render, watch and tui.
// Only flags the user actually set replace the configured values.
type layoutFlags struct {
	radius     float64
	hSpacing   float64
	vSpacing   float64
	hMargin    float64
	vMargin    float64
	iterations int
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	d := layout.DefaultConfig()
	fs.Float64Var(&f.radius, "radius", d.NodeRadius, "node radius")
	fs.Float64Var(&f.hSpacing, "h-spacing", d.HorizontalSpacing, "horizontal distance between siblings")
	fs.Float64Var(&f.vSpacing, "v-spacing", d.VerticalSpacing, "vertical distance between rows")
	fs.Float64Var(&f.hMargin, "h-margin", d.HorizontalMargin, "left and right canvas margin")
	fs.Float64Var(&f.vMargin, "v-margin", d.VerticalMargin, "top and bottom canvas margin")
	fs.IntVar(&f.iterations, "max-iterations", d.MaxCollisionIterations, "collision passes per row before giving up")
}

func (f *layoutFlags) apply(fs *pflag.FlagSet, cfg *layout.Config) {
	if fs.Changed("radius") {
		cfg.NodeRadius = f.radius
	}
	if fs.Changed("h-spacing") {
		cfg.HorizontalSpacing = f.hSpacing
	}
	if fs.Changed("v-spacing") {
		cfg.VerticalSpacing = f.vSpacing
	}
	if fs.Changed("h-margin") {
		cfg.HorizontalMargin = f.hMargin
	}
	if fs.Changed("v-margin") {
		cfg.VerticalMargin = f.vMargin
	}
	if fs.Changed("max-iterations") {
		cfg.MaxCollisionIterations = f.iterations
	}
}

// resolveConfig loads the user config and applies command-line overrides.
func (c *CLI) resolveConfig(cmd *cobra.Command, lf *layoutFlags) (config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	lf.apply(cmd.Flags(), &cfg.Layout)
	if err := cfg.Layout.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json|tree.yaml]",
		Short: "Compute node positions for a tree",
		Long: `Compute node positions for a tree.

The layout command reads a tree document (JSON or YAML, "-" for JSON on stdin)
and writes the computed layout as JSON: canvas size, node positions, edges,
depth rows and any overlap warnings. The output is the same document that
'render -f json' produces before styling.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, &lf)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], cfg, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.layout.json, "-" for stdout)`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")
	lf.register(cmd.Flags())

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, cfg config.Config, output string, noCache, refresh bool) error {
	root, err := pipeline.ReadTree(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipelineOptions(cfg, nil)
	opts.Refresh = refresh

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if output == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivePath(input, "layout.json")
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(res.Nodes), len(res.Warnings), cacheHit)
	printLayoutWarnings(res.Warnings)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}

// derivePath replaces the extension of input with ext.
func derivePath(input, ext string) string {
	return stem(input) + "." + ext
}

// stem strips the extension from input. Stdin input becomes "tree" in the
// working directory.
func stem(input string) string {
	if input == "-" || input == "" {
		return "tree"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render and watch commands.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // svg, png, jpeg, json, dot
	noCache bool
	refresh bool

	// style overrides, applied only when set
	scale      float64
	treeColor  string
	background string
	noBorder   bool
	noLine     bool
}

func (o *renderOpts) register(fs *pflag.FlagSet) {
	d := config.DefaultStyle()
	fs.StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&o.refresh, "refresh", false, "re-render even if cached artifacts exist")
	fs.Float64Var(&o.scale, "scale", d.Scale, "raster scale factor (png, jpeg)")
	fs.StringVar(&o.treeColor, "tree-color", d.TreeColor, "node fill color")
	fs.StringVar(&o.background, "background", d.Background, "canvas background color")
	fs.BoolVar(&o.noBorder, "no-border", false, "do not draw node borders")
	fs.BoolVar(&o.noLine, "no-line", false, "do not draw connectors")
}

func (o *renderOpts) applyStyle(fs *pflag.FlagSet, s *config.Style) {
	if fs.Changed("scale") {
		s.Scale = o.scale
	}
	if fs.Changed("tree-color") {
		s.TreeColor = o.treeColor
	}
	if fs.Changed("background") {
		s.Background = o.background
	}
	if fs.Changed("no-border") {
		s.NoBorder = o.noBorder
	}
	if fs.Changed("no-line") {
		s.NoLine = o.noLine
	}
}

// pipelineOptions merges the loaded config with the render flags.
func (o *renderOpts) pipelineOptions(fs *pflag.FlagSet, cfg config.Config) pipeline.Options {
	o.applyStyle(fs, &cfg.Style)
	opts := pipelineOptions(cfg, o.formats)
	opts.Refresh = o.refresh
	return opts
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		opts       renderOpts
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json|tree.yaml]",
		Short: "Render a tree to SVG, PNG, JPEG, JSON or DOT",
		Long: `Render a tree to one or more output formats.

With a single format the output goes to -o (or <input>.<format>). With several
formats -o is used as a base path and each file gets its format's extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ValidateFormats(parseFormats(formatsStr))
			if err != nil {
				return err
			}
			opts.formats = formats

			cfg, err := c.resolveConfig(cmd, &lf)
			if err != nil {
				return err
			}
			popts := opts.pipelineOptions(cmd.Flags(), cfg)
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts, popts)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpeg, json, dot (comma-separated)")
	opts.register(cmd.Flags())
	lf.register(cmd.Flags())

	return cmd
}

// runRender loads the tree from input and renders it to the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, popts pipeline.Options) error {
	root, err := pipeline.ReadTree(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, root, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, popts.Formats, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.Warnings, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printLayoutWarnings(result.Layout.Warnings)
	return nil
}

// writeArtifacts writes each rendered format next to input (or to output) and
// returns the written paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return nil, fmt.Errorf("missing %s output", f)
		}
		path := outputPath(f, len(formats), input, output)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format. A single format writes to output
// verbatim; otherwise output is a base path whose own format extension, if
// any, is replaced.
func outputPath(format string, count int, input, output string) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + "." + sink.Format(format).Ext()
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in a
// known render format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return stem(input)
	}
	ext := filepath.Ext(output)
	if _, err := sink.ParseFormat(ext); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

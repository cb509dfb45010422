package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/pipeline"
)

// burstDelay is how long the watcher waits after the last file event before
// re-rendering. Editors often emit several events for one save.
const burstDelay = 50 * time.Millisecond

// watchCommand creates the watch command, which re-renders a tree whenever
// its file changes.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		formatsStr string
		opts       renderOpts
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [tree.json|tree.yaml]",
		Short: "Re-render a tree whenever its file changes",
		Args:  cobra.ExactArgs(1),
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

			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			popts.Logger = c.Logger

			w := &watcher{
				input:  args[0],
				logger: loggerFromContext(cmd.Context()),
				render: func(ctx context.Context) error {
					return renderOnce(ctx, runner, args[0], opts.output, popts)
				},
			}
			return w.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpeg, json, dot (comma-separated)")
	opts.register(cmd.Flags())
	lf.register(cmd.Flags())

	return cmd
}

// renderOnce reads, lays out and renders input, writing the artifacts.
func renderOnce(ctx context.Context, runner *pipeline.Runner, input, output string, opts pipeline.Options) error {
	p := newProgress(opts.Logger)
	root, err := pipeline.ReadTree(input)
	if err != nil {
		return err
	}
	result, err := runner.Execute(ctx, root, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))
	return nil
}

// watcher watches the directory holding input rather than the file itself,
// so saves that replace the file by rename are still seen.
type watcher struct {
	input  string
	logger *log.Logger
	render func(context.Context) error
}

func (w *watcher) run(ctx context.Context) error {
	abs, err := filepath.Abs(w.input)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("watch %s: %w", w.input, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w.logger.Infof("watching %s", w.input)
	w.rerender(ctx)

	burst := time.NewTimer(burstDelay)
	if !burst.Stop() {
		<-burst.C
	}
	pending := false

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			if !w.relevant(ev, abs) {
				continue
			}
			w.logger.Debug("file event", "op", ev.Op.String(), "path", ev.Name)
			pending = true
			burst.Reset(burstDelay)
		case <-burst.C:
			if !pending {
				continue
			}
			pending = false
			if _, err := os.Stat(abs); err != nil {
				// Removed, or mid-rename; wait for the next create.
				continue
			}
			w.logger.Infof("detected change in %s: re-rendering...", w.input)
			w.rerender(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.logger.Error("watch error", "err", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// relevant reports whether ev changes the content of the watched file.
func (w *watcher) relevant(ev fsnotify.Event, abs string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// rerender runs one render. Failures are logged and the watch continues.
func (w *watcher) rerender(ctx context.Context) {
	if err := w.render(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("render failed", "err", err)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/server"
	"github.com/matzehuels/arbor/pkg/store"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		location   string
		redisCache string
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document editing API over HTTP",
		Long: `Serve the document editing API over HTTP.

Documents live in the store named by --store (see 'arbor docs --help').
Rendered layouts and images are cached in the local cache directory, or in
Redis when --redis-cache is set, so several instances can share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.resolveConfig(cmd, &lf)
			if err != nil {
				return err
			}

			st, err := store.Open(ctx, location)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			cache, err := newServerCache(ctx, redisCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			runner := pipeline.NewRunner(cache, nil, c.Logger)
			defer runner.Close()

			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
			return server.New(st, runner, cfg, c.Logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&location, "store", "", "document store location")
	cmd.Flags().StringVar(&redisCache, "redis-cache", "", "redis URL for the render cache, e.g. redis://localhost:6379/1")
	lf.register(cmd.Flags())

	return cmd
}

// displayAddr makes a listen address clickable: ":8080" becomes "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

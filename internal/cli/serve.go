package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/player"
	"github.com/matzehuels/plotline/pkg/preview"
)

type serveOpts struct {
	addr  string
	ttl   time.Duration
	prune string
	seed  uint64
	cacheFlags
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", ttl: time.Hour}

	cmd := &cobra.Command{
		Use:   "serve <scene.toml>",
		Short: "Serve rendered frames of a scene over HTTP",
		Long: `Serve starts a preview server for one scene:

  GET /frame.svg?t=2.5            frame at 2.5 seconds
  GET /items                      timeline items and their spans
  GET /items/{name}/graph.svg     block graph (?format=dot, ?detailed)
  GET /blocks                     block catalog
  GET /healthz                    status and version`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "expiry of cached frames")
	cmd.Flags().StringVar(&opts.prune, "prune", "@every 10m", "cron schedule for removing expired cache entries (empty disables)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the scene seed")
	opts.cacheFlags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts *serveOpts) error {
	sc, tl, err := c.loadScene(ctx, input, opts.seed)
	if err != nil {
		return err
	}
	store, keyer := opts.cacheFlags.open(ctx)
	defer store.Close()

	srv := preview.New(sc, player.New(tl, sc.Width, sc.Height),
		preview.WithCache(store, keyer),
		preview.WithTTL(opts.ttl),
		preview.WithPruneSchedule(opts.prune),
		preview.WithLogger(loggerFromContext(ctx)),
		preview.WithCatalog(c.Catalog),
	)

	printInfo("Serving %s on %s", StyleHighlight.Render(input), StyleValue.Render(opts.addr))
	printDetail("Press Ctrl+C to stop")
	if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

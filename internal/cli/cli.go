package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/buildinfo"
	"github.com/matzehuels/plotline/pkg/cache"
	"github.com/matzehuels/plotline/pkg/scene"
	"github.com/matzehuels/plotline/pkg/timeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "plotline"

	// redisPrefix scopes cache keys in a shared Redis database.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger  *log.Logger
	Catalog *block.Catalog

	verbose  bool
	shutdown func(context.Context) error // flushes the tracer provider
}

// New creates a CLI logging to w at level, with the default block catalog.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:  newLogger(w, level),
		Catalog: block.DefaultCatalog(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "plotline plays node graphs of generative drawings on a timeline",
		Long:         `plotline evaluates scenes of block graphs scheduled on a timeline. Each frame runs the graphs under the playhead and records what they draw, which can be played in the terminal, rendered to SVG, PNG or PDF, or served to a browser.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c.applyVerbose()
			ctx = withLogger(ctx, c.Logger)
			cmd.SetContext(ctx)
			return c.setupTracing(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.registerVerbose(root)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Scene Loading
// =============================================================================

// loadScene parses path and builds its timeline. A non-zero seed overrides
// the scene's.
func (c *CLI) loadScene(ctx context.Context, path string, seed uint64) (*scene.Scene, *timeline.Timeline, error) {
	logger := loggerFromContext(ctx)
	sc, err := scene.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if seed != 0 {
		sc.Seed = seed
	}
	tl, err := sc.Build(c.Catalog, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("scene loaded", "path", path, "items", len(tl.Items), "secs", tl.TotalSecs, "seed", tl.Seed)
	return sc, tl, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// cacheFlags are shared by commands that cache rendered artifacts.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&f.redisURL, "redis", os.Getenv("PLOTLINE_REDIS_URL"), "cache in Redis at this URL instead of on disk")
}

// open returns the configured cache and its keyer. A cache that cannot be
// opened is logged and replaced by the null cache.
func (f *cacheFlags) open(ctx context.Context) (cache.Cache, cache.Keyer) {
	logger := loggerFromContext(ctx)
	keyer := cache.NewDefaultKeyer()
	if f.noCache {
		return cache.NewNullCache(), keyer
	}
	if f.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: f.redisURL})
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), keyer
		}
		return cache.NewObserved(rc), cache.NewScopedKeyer(keyer, redisPrefix)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), keyer
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), keyer
	}
	return cache.NewObserved(fc), keyer
}

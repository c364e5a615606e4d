package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cache of rendered frames and graphs",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisURL string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL != "" {
				return clearRedis(cmd.Context(), redisURL)
			}
			return clearFiles()
		},
	}
	cmd.Flags().StringVar(&redisURL, "redis", "", "clear plotline keys in Redis at this URL instead")
	return cmd
}

func clearFiles() error {
	fc, err := openFileCache()
	if err != nil {
		return err
	}
	entries, _, err := fc.Stats()
	if err != nil {
		return err
	}
	if entries == 0 {
		printInfo("Cache is empty")
		return nil
	}
	if err := fc.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", fc.Dir(), err)
	}
	printSuccess("Cleared %d cached entries", entries)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func clearRedis(ctx context.Context, url string) error {
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: url})
	if err != nil {
		return err
	}
	defer rc.Close()

	n, err := rc.Clear(ctx, redisPrefix+"*")
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo("No plotline keys in Redis")
		return nil
	}
	printSuccess("Deleted %d Redis keys", n)
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory and its size",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			fmt.Println(fc.Dir())
			entries, size, err := fc.Stats()
			if err != nil {
				printWarning("cannot read cache: %v", err)
				return nil
			}
			printKeyValue("Entries", fmt.Sprint(entries))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// formatBytes prints n with a binary unit, e.g. "1.5 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

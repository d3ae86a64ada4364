package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seleniumdl/pkg/cache"
	"github.com/matzehuels/seleniumdl/pkg/config"
	"github.com/matzehuels/seleniumdl/pkg/selenium"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached resolution results",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget cached resolution results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			switch cfg.Cache.Backend {
			case config.BackendNone:
				printInfo(out, "Caching is disabled")
				return nil

			case config.BackendRedis:
				rc, err := cache.NewRedisCache(cmd.Context(), cfg.Cache.RedisAddr, redisPrefix)
				if err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				defer rc.Close()
				// Only the cache key is needed; the resolver never lists.
				r := selenium.NewResolver(nil, selenium.WithArtifact(cfg.Artifact()), selenium.WithCache(rc, 0))
				if err := r.Forget(cmd.Context()); err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess(out, "Cleared cached version")
				printDetail(out, "Redis: %s", cfg.Cache.RedisAddr)
				return nil
			}

			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached entries", count)
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where results are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.BackendNone:
				fmt.Fprintln(cmd.OutOrStdout(), "none")
			case config.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+cfg.Cache.RedisAddr)
			default:
				dir, err := cfg.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}

// Package cli implements the seleniumdl command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seleniumdl/pkg/bucket"
	"github.com/matzehuels/seleniumdl/pkg/buildinfo"
	"github.com/matzehuels/seleniumdl/pkg/cache"
	"github.com/matzehuels/seleniumdl/pkg/config"
	"github.com/matzehuels/seleniumdl/pkg/download"
	"github.com/matzehuels/seleniumdl/pkg/httputil"
	"github.com/matzehuels/seleniumdl/pkg/selenium"
)

// =============================================================================
// Constants
// =============================================================================

// redisPrefix namespaces seleniumdl keys in a shared redis.
const redisPrefix = "seleniumdl:"

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
	Logger *log.Logger

	configPath string
	bucketURL  string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level HTTP, cache and
// resolution events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "seleniumdl",
		Short: "seleniumdl finds and downloads the latest Selenium standalone server",
		Long: `seleniumdl lists the Selenium release bucket, picks the newest
major.minor release directory and reads the full version off the
standalone server jar published in it. If the bucket cannot be read
a known-good fallback version is used instead.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seleniumdl/config.toml)")
	root.PersistentFlags().StringVar(&c.bucketURL, "bucket", "", "release bucket URL (overrides config)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not read or write cached results")

	root.AddCommand(c.latestCommand())
	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.bucketURL != "" {
		cfg.Bucket.URL = c.bucketURL
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cfg, nil
}

// newResolver builds a resolver for cfg. The returned cache must be closed
// by the caller.
func (c *CLI) newResolver(ctx context.Context, cfg config.Config) (*selenium.Resolver, cache.Cache) {
	client := bucket.NewClient(cfg.Bucket.URL,
		bucket.WithTimeout(cfg.HTTP.Timeout),
		bucket.WithRetry(cfg.HTTP.Retries, httputil.DefaultDelay),
		bucket.WithLogger(c.Logger),
	)
	store := c.newCache(ctx, cfg)
	r := selenium.NewResolver(client,
		selenium.WithArtifact(cfg.Artifact()),
		selenium.WithFallback(cfg.FallbackVersion),
		selenium.WithCache(store, cfg.Cache.TTL),
		selenium.WithLogger(c.Logger),
	)
	return r, store
}

// newCache opens the configured backend. An unavailable backend degrades to
// no caching; resolution works without it.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) cache.Cache {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache()
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, redisPrefix)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Debug("file cache unavailable", "dir", dir, "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

func (c *CLI) newDownloader(cfg config.Config) *download.Downloader {
	return download.NewDownloader(
		download.WithRetry(cfg.HTTP.Retries, httputil.DefaultDelay),
		download.WithLogger(c.Logger),
	)
}

// Package config loads seleniumdl settings from a TOML file.
//
// Every field has a default, so a missing default config file is not an
// error. Example:
//
//	fallback_version = "2.53.0"
//
//	[bucket]
//	url = "https://selenium-release.storage.googleapis.com"
//	artifact_prefix = "selenium-server-standalone-"
//	extension = ".jar"
//
//	[http]
//	timeout = "10s"
//	retries = 3
//
//	[cache]
//	backend = "redis"
//	ttl = "6h"
//	redis_addr = "localhost:6379"
//
//	[serve]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/seleniumdl/pkg/errors"
	"github.com/matzehuels/seleniumdl/pkg/selenium"
)

// appName names the config and cache directories.
const appName = "seleniumdl"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all settings.
type Config struct {
	FallbackVersion string `toml:"fallback_version"`
	Bucket          Bucket `toml:"bucket"`
	HTTP            HTTP   `toml:"http"`
	Cache           Cache  `toml:"cache"`
	Serve           Serve  `toml:"serve"`
}

// Bucket describes where releases are listed and downloaded from.
type Bucket struct {
	URL            string `toml:"url"`
	ArtifactPrefix string `toml:"artifact_prefix"`
	Extension      string `toml:"extension"`
}

// HTTP tunes outgoing requests.
type HTTP struct {
	Timeout time.Duration `toml:"timeout"`
	Retries int           `toml:"retries"`
}

// Cache selects where resolution results are kept.
type Cache struct {
	Backend   string        `toml:"backend"`
	TTL       time.Duration `toml:"ttl"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
}

// Serve configures the HTTP endpoint.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FallbackVersion: selenium.FallbackVersion,
		Bucket: Bucket{
			URL:            selenium.DefaultBaseURL,
			ArtifactPrefix: selenium.DefaultArtifactPrefix,
			Extension:      selenium.DefaultExt,
		},
		HTTP: HTTP{
			Timeout: 10 * time.Second,
			Retries: 3,
		},
		Cache: Cache{
			Backend:   BackendFile,
			TTL:       6 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Serve: Serve{Addr: "127.0.0.1:8080"},
	}
}

// Artifact returns the download layout described by the bucket section.
func (c Config) Artifact() selenium.Artifact {
	return selenium.Artifact{
		BaseURL: c.Bucket.URL,
		Prefix:  c.Bucket.ArtifactPrefix,
		Ext:     c.Bucket.Extension,
	}
}

// Load reads the config file at path on top of [Default]. An empty path
// loads [DefaultPath] if it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks field values that would only fail later at request time.
func (c Config) Validate() error {
	if err := errs.ValidateVersion(c.FallbackVersion); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "fallback_version")
	}
	if err := errs.ValidateBucketURL(c.Bucket.URL); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "bucket.url")
	}
	if err := errs.ValidateArtifactPrefix(c.Bucket.ArtifactPrefix); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "bucket.artifact_prefix")
	}
	if c.HTTP.Timeout <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "http.timeout must be positive")
	}
	if c.HTTP.Retries < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "http.retries must be at least 1")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	return nil
}

// DefaultPath returns the config file location following XDG
// (~/.config/seleniumdl/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory: cache.dir if set, otherwise the XDG
// cache home (~/.cache/seleniumdl).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

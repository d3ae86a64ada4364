package selenium

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seleniumdl/pkg/bucket"
	"github.com/matzehuels/seleniumdl/pkg/cache"
	errs "github.com/matzehuels/seleniumdl/pkg/errors"
	"github.com/matzehuels/seleniumdl/pkg/observability"
)

// cacheNamespace prefixes cached resolution results.
const cacheNamespace = "selenium:latest"

// Lister fetches one directory level of a bucket listing.
// [*bucket.Client] is the production implementation.
type Lister interface {
	List(ctx context.Context, prefix string) (*bucket.Listing, error)
}

// DownloadInfo is the outcome of a resolution.
type DownloadInfo struct {
	DownloadURL string `json:"downloadUrl"`
	Version     string `json:"version"`
	Fallback    bool   `json:"fallback"` // true if Version is the fallback constant
}

// Resolver finds the latest release published to a bucket.
//
// A Resolver is safe for concurrent use if its Lister and Cache are.
type Resolver struct {
	lister   Lister
	artifact Artifact
	fallback string
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *log.Logger
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithArtifact sets the download URL layout and the file name prefix used to
// find the release in a listing.
func WithArtifact(a Artifact) Option {
	return func(r *Resolver) { r.artifact = a }
}

// WithFallback sets the version reported when resolution fails.
func WithFallback(version string) Option {
	return func(r *Resolver) { r.fallback = version }
}

// WithCache caches successful resolutions in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithLogger sets the logger. Fallbacks are reported at warn level.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver reading listings from lister. Without
// options it resolves the Selenium standalone server, falls back to
// [FallbackVersion], does not cache and does not log.
func NewResolver(lister Lister, opts ...Option) *Resolver {
	r := &Resolver{
		lister:   lister,
		artifact: DefaultArtifact(),
		fallback: FallbackVersion,
		cache:    cache.NewNullCache(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Artifact returns the artifact layout the resolver builds URLs with.
func (r *Resolver) Artifact() Artifact { return r.artifact }

// LatestVersion resolves the newest full version in two listings:
//  1. the bucket root, to pick the highest "major.minor/" prefix
//  2. that prefix, to read the full version off the artifact file name
//
// If refresh is false a cached result is returned when available. Unlike
// [Resolver.Resolve], errors are returned to the caller.
func (r *Resolver) LatestVersion(ctx context.Context, refresh bool) (string, error) {
	key := r.cacheKey()

	if !refresh {
		if data, ok, err := r.cache.Get(ctx, key); err != nil {
			r.logger.Debug("cache read failed", "err", err)
		} else if ok && errs.ValidateVersion(string(data)) == nil {
			observability.Cache().OnCacheHit(ctx, cacheNamespace)
			r.logger.Debug("using cached version", "version", string(data))
			return string(data), nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheNamespace)
	}

	root, err := r.lister.List(ctx, "")
	if err != nil {
		return "", err
	}
	minor, err := LatestMinor(root)
	if err != nil {
		return "", err
	}
	r.logger.Debug("latest minor release", "minor", minor)

	dir, err := r.lister.List(ctx, minor+"/")
	if err != nil {
		return "", err
	}
	version, err := FindVersion(dir, r.artifact.Prefix)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, key, []byte(version), r.cacheTTL); err != nil {
		r.logger.Debug("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheNamespace, len(version))
	}
	return version, nil
}

// Forget drops the cached resolution result, if any.
func (r *Resolver) Forget(ctx context.Context) error {
	return r.cache.Delete(ctx, r.cacheKey())
}

func (r *Resolver) cacheKey() string {
	return cache.Key(cacheNamespace, r.artifact.BaseURL+"|"+r.artifact.Prefix)
}

// Resolve returns the download URL and version of the latest release. It
// never fails: any network or parse error is logged and the fallback
// version is used instead. Cancellation of ctx also results in the fallback.
func (r *Resolver) Resolve(ctx context.Context, refresh bool) *DownloadInfo {
	start := time.Now()
	version, err := r.LatestVersion(ctx, refresh)
	fallback := err != nil
	if fallback {
		version = r.fallback
		r.logger.Warn("unable to determine latest version of selenium standalone server; using fallback",
			"version", version, "err", err)
	}
	observability.Resolve().OnResolveComplete(ctx, version, fallback, time.Since(start), err)
	return &DownloadInfo{
		DownloadURL: r.artifact.URL(version),
		Version:     version,
		Fallback:    fallback,
	}
}

// Package download fetches a release file to local disk.
//
// Files are streamed to a uniquely named ".part" file next to the
// destination and renamed into place once complete, so an interrupted
// download never leaves a truncated jar behind under the final name.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/seleniumdl/pkg/buildinfo"
	errs "github.com/matzehuels/seleniumdl/pkg/errors"
	"github.com/matzehuels/seleniumdl/pkg/httputil"
)

// DefaultTimeout bounds a whole download, body included.
const DefaultTimeout = 5 * time.Minute

// Result describes a completed (or skipped) download.
type Result struct {
	Path    string // destination file
	Bytes   int64  // bytes written; 0 when skipped
	SHA256  string // hex digest of the written file; empty when skipped
	Skipped bool   // destination already existed
}

// Downloader fetches files over HTTP.
type Downloader struct {
	http     *http.Client
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// Option configures a [Downloader].
type Option func(*Downloader)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Downloader) { d.http = hc }
}

// WithRetry sets how many attempts a download gets and the initial backoff.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(d *Downloader) {
		d.attempts = attempts
		d.delay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Downloader) { d.logger = l }
}

// NewDownloader creates a Downloader.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{
		http:     &http.Client{Timeout: DefaultTimeout},
		attempts: httputil.DefaultAttempts,
		delay:    httputil.DefaultDelay,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads url to dest. If dest exists and force is false, nothing is
// downloaded and Result.Skipped is set.
//
// Returns NOT_FOUND for a 404 and NETWORK_ERROR for other failed requests;
// 5xx responses and transport errors are retried.
func (d *Downloader) Fetch(ctx context.Context, url, dest string, force bool) (*Result, error) {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			d.logger.Debug("destination exists, skipping download", "path", dest)
			return &Result{Path: dest, Skipped: true}, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create %s", filepath.Dir(dest))
	}

	var res *Result
	err := httputil.Retry(ctx, d.attempts, d.delay, func() error {
		var err error
		res, err = d.fetchOnce(ctx, url, dest)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (d *Downloader) fetchOnce(ctx context.Context, url, dest string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	d.logger.Debug("downloading", "url", url)
	resp, err := httputil.Do(d.http, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "GET %s", url))
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}

	tmp := fmt.Sprintf("%s.%s.part", dest, uuid.NewString())
	f, err := os.Create(tmp)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create %s", tmp)
	}
	defer os.Remove(tmp)

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), resp.Body)
	if err != nil {
		f.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "read body of %s", url))
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		f.Close()
		return nil, httputil.Retryable(errs.New(errs.ErrCodeNetwork, "short body for %s: got %d of %d bytes", url, n, resp.ContentLength))
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "move download to %s", dest)
	}

	return &Result{
		Path:   dest,
		Bytes:  n,
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

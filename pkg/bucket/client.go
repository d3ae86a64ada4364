package bucket

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seleniumdl/pkg/buildinfo"
	errs "github.com/matzehuels/seleniumdl/pkg/errors"
	"github.com/matzehuels/seleniumdl/pkg/httputil"
)

const (
	// DefaultTimeout bounds a single listing request.
	DefaultTimeout = 10 * time.Second

	// maxPages stops a misbehaving server from paginating forever.
	maxPages = 100
)

// Client lists a public bucket through its XML API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	attempts  int
	delay     time.Duration
	logger    *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetry sets how many attempts a request gets and the initial backoff.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the bucket rooted at baseURL, for example
// "https://selenium-release.storage.googleapis.com".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: buildinfo.UserAgent(),
		attempts:  httputil.DefaultAttempts,
		delay:     httputil.DefaultDelay,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListURL returns the listing URL for one directory level under prefix.
// An empty marker requests the first page.
func (c *Client) ListURL(prefix, marker string) string {
	q := url.Values{}
	q.Set("delimiter", "/")
	q.Set("prefix", prefix)
	if marker != "" {
		q.Set("marker", marker)
	}
	return c.baseURL + "/?" + q.Encode()
}

// List fetches the listing for prefix ("" for the bucket root, "2.53/" for
// a minor-version directory). Truncated listings are followed page by page
// and merged into a single result.
//
// Returns:
//   - NETWORK_ERROR for transport failures and unexpected statuses
//   - NOT_FOUND when the bucket does not exist (404)
//   - INVALID_LISTING when a page is not a ListBucketResult document
func (c *Client) List(ctx context.Context, prefix string) (*Listing, error) {
	listing, err := c.listPage(ctx, prefix, "")
	if err != nil {
		return nil, err
	}

	for page := 1; listing.IsTruncated; page++ {
		if page >= maxPages {
			return nil, errs.New(errs.ErrCodeInvalidListing, "listing for %q exceeds %d pages", prefix, maxPages)
		}
		marker := listing.resumeMarker()
		if marker == "" || marker == listing.Marker {
			return nil, errs.New(errs.ErrCodeInvalidListing, "truncated listing for %q has no usable marker", prefix)
		}
		next, err := c.listPage(ctx, prefix, marker)
		if err != nil {
			return nil, err
		}
		listing.Marker = marker
		listing.merge(next)
	}
	return listing, nil
}

func (c *Client) listPage(ctx context.Context, prefix, marker string) (*Listing, error) {
	u := c.ListURL(prefix, marker)

	var listing *Listing
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		c.logger.Debug("listing bucket", "url", u)
		body, err := c.get(ctx, u)
		if err != nil {
			return err
		}
		defer body.Close()

		listing, err = ParseListing(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request for %s", u)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := httputil.Do(c.http, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "GET %s", u))
	}

	if err := httputil.CheckStatus(resp.StatusCode, u); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

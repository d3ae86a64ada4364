package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seleniumdl/pkg/observability"
)

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnResolveComplete(_ context.Context, version string, fallback bool, d time.Duration, err error) {
	h.logger.Debug("resolve", "version", version, "fallback", fallback, "took", d.Round(time.Millisecond), "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, ns string)  { h.logger.Debug("cache hit", "ns", ns) }
func (h logHooks) OnCacheMiss(_ context.Context, ns string) { h.logger.Debug("cache miss", "ns", ns) }
func (h logHooks) OnCacheSet(_ context.Context, ns string, size int) {
	h.logger.Debug("cache set", "ns", ns, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

// registerLogHooks routes all observability events to logger.
func registerLogHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetResolveHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

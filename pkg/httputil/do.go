package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/seleniumdl/pkg/observability"
)

// Do sends req with hc and reports it to the registered HTTP hooks.
func Do(hc *http.Client, req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

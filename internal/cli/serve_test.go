package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seleniumdl/pkg/bucket"
	"github.com/matzehuels/seleniumdl/pkg/selenium"
)

func testHandler(t *testing.T, b *fakeBucket) http.Handler {
	t.Helper()
	client := bucket.NewClient(b.URL, bucket.WithRetry(1, time.Millisecond))
	a := selenium.DefaultArtifact()
	a.BaseURL = b.URL
	r := selenium.NewResolver(client, selenium.WithArtifact(a))
	return newServeHandler(r, log.New(io.Discard))
}

func TestServe_Latest(t *testing.T) {
	b := newFakeBucket(t)
	srv := httptest.NewServer(testHandler(t, b))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/latest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}

	var info selenium.DownloadInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "2.53.1" || info.DownloadURL != b.URL+"/2.53/selenium-server-standalone-2.53.1.jar" {
		t.Errorf("got %+v", info)
	}
}

func TestServe_LatestFallback(t *testing.T) {
	b := newFakeBucket(t)
	b.broken.Store(true)
	srv := httptest.NewServer(testHandler(t, b))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/latest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var info selenium.DownloadInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || !info.Fallback || info.Version != selenium.FallbackVersion {
		t.Errorf("status %d, info %+v; want 200 with fallback", resp.StatusCode, info)
	}
}

func TestServe_Routes(t *testing.T) {
	b := newFakeBucket(t)
	h := testHandler(t, b)

	tests := []struct {
		method string
		path   string
		header string
		want   int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/latest?refresh=true", "", http.StatusOK},
		{http.MethodGet, "/latest?refresh=maybe", "", http.StatusBadRequest},
		{http.MethodPost, "/latest", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
		{http.MethodGet, "/healthz", "req-42", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-Request-Id", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.header != "" && rec.Header().Get("X-Request-Id") != tt.header {
				t.Errorf("X-Request-Id = %q, want %q", rec.Header().Get("X-Request-Id"), tt.header)
			}
		})
	}
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())

	var logs bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, http.NotFoundHandler(), log.New(&logs)) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("server not reachable: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v after cancellation", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not shut down")
	}
}

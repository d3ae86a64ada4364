package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seleniumdl/pkg/buildinfo"
	"github.com/matzehuels/seleniumdl/pkg/selenium"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest version over HTTP",
		Long: `Serve the resolution result as JSON, for test harnesses that need the
download URL without running the CLI.

Endpoints:
  GET /latest[?refresh=true]   {"downloadUrl": "...", "version": "...", "fallback": false}
  GET /healthz                 200 OK`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}

			ctx := cmd.Context()
			r, store := c.newResolver(ctx, cfg)
			defer store.Close()

			ln, err := net.Listen("tcp", cfg.Serve.Addr)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), "Listening on %s", StyleLink.Render("http://"+ln.Addr().String()))
			return serve(ctx, ln, newServeHandler(r, c.Logger), c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}

// serve runs handler on ln until ctx is cancelled, then shuts down
// gracefully. Cancellation is not reported as an error.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServeHandler returns the router for the serve command.
func newServeHandler(r *selenium.Resolver, logger *log.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	router.Get("/latest", func(w http.ResponseWriter, req *http.Request) {
		refresh := false
		if v := req.URL.Query().Get("refresh"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "refresh must be a boolean", http.StatusBadRequest)
				return
			}
			refresh = b
		}

		info := r.Resolve(req.Context(), refresh)
		if req.Context().Err() != nil {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := writeJSON(w, info); err != nil {
			loggerFromContext(req.Context()).Debug("write response", "err", err)
		}
	})

	return router
}

// requestLogger tags each request with an X-Request-Id and logs it once
// served.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := req.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", id)
			w.Header().Set("Server", buildinfo.UserAgent())

			l := logger.With("request_id", id)
			ctx := withLogger(req.Context(), l)

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req.WithContext(ctx))
			l.Debug("request", "method", req.Method, "path", req.URL.Path,
				"status", ww.Status(), "took", time.Since(start).Round(time.Millisecond))
		})
	}
}

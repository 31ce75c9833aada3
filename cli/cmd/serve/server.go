package serve

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/tmpl"
)

// DefaultMaxBody is the default limit on request body size in bytes.
const DefaultMaxBody = 4 << 20

// DefaultMaxOutput is the default limit on rendered output size in bytes.
const DefaultMaxOutput = 16 << 20

// shutdownTimeout bounds graceful shutdown once the serving context ends.
const shutdownTimeout = 5 * time.Second

// Server renders templates submitted over HTTP.
type Server struct {
	router   chi.Router
	metrics  *metrics
	registry *prometheus.Registry
	logger   log.Logger
	opts     []tmpl.Option
	maxBody   int64
	maxOutput int64
	profiler  bool
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger for requests and template tracing.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTemplateOptions sets options applied to every render.
func WithTemplateOptions(opts ...tmpl.Option) Option {
	return func(s *Server) { s.opts = append(s.opts, opts...) }
}

// WithMaxBody limits the size of request bodies.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithMaxOutput limits the size of rendered output. A render producing more
// is aborted.
func WithMaxOutput(n int64) Option {
	return func(s *Server) { s.maxOutput = n }
}

// WithProfiler mounts the net/http/pprof handlers under /debug.
func WithProfiler(enable bool) Option {
	return func(s *Server) { s.profiler = enable }
}

// New returns a Server configured by opts. Each Server owns its metrics
// registry.
func New(opts ...Option) *Server {
	s := &Server{
		registry: prometheus.NewRegistry(),
		maxBody:   DefaultMaxBody,
		maxOutput: DefaultMaxOutput,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.metrics = newMetrics(s.registry)
	s.opts = append(s.opts, tmpl.WithLogger(s.logger))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Post("/render", s.handleRender)
	r.Post("/check", s.handleCheck)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	if s.profiler {
		r.Mount("/debug", middleware.Profiler())
	}

	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)

	go func() {
		s.logger.InfoContext(ctx, "serving", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		s.logger.InfoContext(ctx, "shutting down", slog.String("addr", addr))

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.DebugContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Package server exposes the analyzers over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
)

// Route paths.
const (
	PathAnalyze = "/v1/analyze"
	PathHealth  = "/healthz"
	PathReady   = "/readyz"
	PathMetrics = "/metrics"
)

// Default limits and timeouts.
const (
	DefaultMaxBodyBytes    = 4 << 20
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Deps holds the collaborators of the HTTP handler. Zero values select
// defaults.
type Deps struct {
	Service *analyze.Service
	Logger  *slog.Logger
	Tracer  trace.Tracer
	RED     *observability.REDMetrics

	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler

	// MaxBodyBytes limits request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Ready checks gate /readyz.
	Ready []observability.ReadyCheck
}

// NewHandler builds the routed, traced handler.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	if deps.Tracer == nil {
		deps.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if deps.Service == nil {
		deps.Service = analyze.NewService(analyze.ServiceDeps{Logger: deps.Logger, Tracer: deps.Tracer})
	}

	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = DefaultMaxBodyBytes
	}

	api := &analyzeHandler{
		service:  deps.Service,
		logger:   deps.Logger,
		maxBytes: deps.MaxBodyBytes,
	}

	mux := http.NewServeMux()
	mux.Handle("POST "+PathAnalyze, api)
	mux.Handle("GET "+PathHealth, observability.HealthHandler())
	mux.Handle("GET "+PathReady, observability.ReadyHandler(deps.Ready...))

	if deps.MetricsHandler != nil {
		mux.Handle("GET "+PathMetrics, deps.MetricsHandler)
	}

	return observability.HTTPMiddleware(deps.Tracer, deps.RED, mux)
}

// Options configures the listening server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}

	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}

	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}

	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}

	return o
}

// Server is an HTTP server with graceful shutdown.
type Server struct {
	http            *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a Server serving handler.
func New(opts Options, handler http.Handler, logger *slog.Logger) *Server {
	opts = opts.withDefaults()

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger:          logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// ListenAndServe listens on the configured address and serves until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then drains
// in-flight requests within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.InfoContext(ctx, "server listening", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	s.logger.InfoContext(shutdownCtx, "server shutting down")

	err := s.http.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

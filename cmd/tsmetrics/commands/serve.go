package commands

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/safeconv"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  POST /v1/analyze  analyze inline code or a server-side path
  GET  /healthz     liveness
  GET  /readyz      readiness
  GET  /metrics     Prometheus metrics (telemetry.prometheus)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, configPath, observability.ModeServe)
			if err != nil {
				return err
			}
			defer rt.close()

			if cmd.Flags().Changed("host") {
				rt.cfg.Server.Host = host
			}

			if cmd.Flags().Changed("port") {
				rt.cfg.Server.Port = port
			}

			err = rt.cfg.Validate()
			if err != nil {
				return err
			}

			handler, err := newServeHandler(rt)
			if err != nil {
				return err
			}

			addr := net.JoinHostPort(rt.cfg.Server.Host, strconv.Itoa(rt.cfg.Server.Port))

			srv := server.New(server.Options{
				Addr:            addr,
				ReadTimeout:     rt.cfg.Server.ReadTimeout,
				WriteTimeout:    rt.cfg.Server.WriteTimeout,
				IdleTimeout:     rt.cfg.Server.IdleTimeout,
				ShutdownTimeout: rt.cfg.Server.ShutdownTimeout,
			}, handler, rt.providers.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt.providers.Logger.InfoContext(ctx, "http server starting", "addr", addr)

			return srv.ListenAndServe(ctx)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default from server.port)")

	return cmd
}

func newServeHandler(rt *runtime) (http.Handler, error) {
	svc, err := rt.service()
	if err != nil {
		return nil, err
	}

	red, err := observability.NewREDMetrics(rt.providers.Meter)
	if err != nil {
		return nil, err
	}

	maxBody, err := rt.cfg.MaxBodyBytes()
	if err != nil {
		return nil, err
	}

	maxBodyBytes, err := safeconv.Uint64ToInt64(maxBody)
	if err != nil {
		return nil, err
	}

	return server.NewHandler(server.Deps{
		Service:        svc,
		Logger:         rt.providers.Logger,
		Tracer:         rt.providers.Tracer,
		RED:            red,
		MetricsHandler: rt.providers.MetricsHandler,
		MaxBodyBytes:   maxBodyBytes,
	}), nil
}

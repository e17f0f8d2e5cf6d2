// Package commands implements the tsmetrics CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/config"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/version"
)

const configFlag = "config"

// runtime is the loaded configuration together with the telemetry providers
// of one command invocation.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
}

func addConfigFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, configFlag, "c", "", "Config file (default: tsmetrics.yaml in ., ./config or /etc/tsmetrics)")
}

// loadRuntime reads the configuration and initializes observability for mode.
// The persistent --verbose and --quiet flags override the configured level.
func loadRuntime(cmd *cobra.Command, configPath string, mode observability.AppMode) (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.Observability(mode, version.Get().Version)

	if mode == observability.ModeMCP || mode == observability.ModeLSP {
		obsCfg.LogJSON = true
	}

	switch {
	case isQuiet(cmd):
		obsCfg.LogLevel = slog.LevelError
	case isVerbose(cmd):
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &runtime{cfg: cfg, providers: providers}, nil
}

// close flushes telemetry.
func (rt *runtime) close() {
	err := rt.providers.Shutdown(context.Background())
	if err != nil {
		rt.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// service builds the folder analysis service from the configuration.
func (rt *runtime) service() (*analyze.Service, error) {
	maxFileSize, err := rt.cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewAnalysisMetrics(rt.providers.Meter)
	if err != nil {
		return nil, err
	}

	return analyze.NewService(analyze.ServiceDeps{
		Analyzer:    analyze.NewFileAnalyzer(rt.cfg.AnalyzeOptions(), rt.providers.Tracer),
		Workers:     rt.cfg.Analysis.Workers,
		MaxFileSize: maxFileSize,
		Logger:      rt.providers.Logger,
		Tracer:      rt.providers.Tracer,
		Metrics:     metrics,
	}), nil
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return false
	}

	return quiet
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}

	return verbose
}

func progressf(silent bool, writer io.Writer, format string, args ...any) {
	if silent {
		return
	}

	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}

// Package config loads the tsmetrics configuration from defaults, an optional
// YAML file and TSMETRICS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/volume"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
)

// Sentinel validation errors.
var (
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidDepth       = errors.New("max depth must not be negative")
	ErrInvalidFileSize    = errors.New("invalid max file size")
	ErrInvalidThresholds  = errors.New("invalid severity thresholds")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLimit       = errors.New("output limit must not be negative")
)

const (
	configName = "tsmetrics"
	configType = "yaml"
	envPrefix  = "TSMETRICS"
	maxPort    = 65535
)

// Config holds the whole tsmetrics configuration.
type Config struct {
	Analysis        AnalysisConfig          `mapstructure:"analysis"`
	Maintainability maintainability.Options `mapstructure:"maintainability"`
	Output          OutputConfig            `mapstructure:"output"`
	Logging         LoggingConfig           `mapstructure:"logging"`
	Server          ServerConfig            `mapstructure:"server"`
	Telemetry       TelemetryConfig         `mapstructure:"telemetry"`
}

// AnalysisConfig controls how files are found and analyzed.
type AnalysisConfig struct {
	Workers                      int    `mapstructure:"workers"`
	MaxFileSize                  string `mapstructure:"max_file_size"`
	MaxDepth                     int    `mapstructure:"max_depth"`
	PrivateIdentifiersAsOperands bool   `mapstructure:"private_identifiers_as_operands"`
}

// OutputConfig holds the report defaults of the analyze command.
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	Sort        string `mapstructure:"sort"`
	Desc        bool   `mapstructure:"desc"`
	MinSeverity string `mapstructure:"min_severity"`
	Limit       int    `mapstructure:"limit"`
	NoColor     bool   `mapstructure:"no_color"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     string        `mapstructure:"max_body_size"`
}

// TelemetryConfig holds tracing and metrics export configuration.
type TelemetryConfig struct {
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Prometheus   bool    `mapstructure:"prometheus"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	TraceVerbose bool    `mapstructure:"trace_verbose"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty configPath searches ., ./config and /etc/tsmetrics for tsmetrics.yaml;
// a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType(configType)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/tsmetrics")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	var config Config

	// Defaults always decode.
	_ = viperCfg.Unmarshal(&config)

	return &config
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.workers", DefaultWorkers)
	viperCfg.SetDefault("analysis.max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("analysis.max_depth", DefaultMaxDepth)
	viperCfg.SetDefault("analysis.private_identifiers_as_operands", DefaultPrivateIdentifiersAsOperands)

	viperCfg.SetDefault("maintainability.clamp_upper", DefaultClampUpper)
	viperCfg.SetDefault("maintainability.halve_aggregates", DefaultHalveAggregates)
	viperCfg.SetDefault("maintainability.unit.alert", defaultThresholds.Unit.Alert)
	viperCfg.SetDefault("maintainability.unit.critical", defaultThresholds.Unit.Critical)
	viperCfg.SetDefault("maintainability.aggregate.alert", defaultThresholds.Aggregate.Alert)
	viperCfg.SetDefault("maintainability.aggregate.critical", defaultThresholds.Aggregate.Critical)

	viperCfg.SetDefault("output.format", DefaultFormat)
	viperCfg.SetDefault("output.sort", DefaultSort)
	viperCfg.SetDefault("output.desc", false)
	viperCfg.SetDefault("output.min_severity", DefaultMinSeverity)
	viperCfg.SetDefault("output.limit", 0)
	viperCfg.SetDefault("output.no_color", false)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)

	viperCfg.SetDefault("server.host", DefaultHost)
	viperCfg.SetDefault("server.port", DefaultPort)
	viperCfg.SetDefault("server.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	viperCfg.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	viperCfg.SetDefault("server.max_body_size", DefaultMaxBodySize)

	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.prometheus", DefaultPrometheus)
	viperCfg.SetDefault("telemetry.debug_trace", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.trace_verbose", false)
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	if c.Analysis.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Analysis.Workers)
	}

	if c.Analysis.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, c.Analysis.MaxDepth)
	}

	_, err := c.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	_, err = c.MaxBodyBytes()
	if err != nil {
		return err
	}

	err = validateThresholds("unit", c.Maintainability.Unit)
	if err != nil {
		return err
	}

	err = validateThresholds("aggregate", c.Maintainability.Aggregate)
	if err != nil {
		return err
	}

	if c.Output.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.Output.Limit)
	}

	_, err = c.ReportOptions()
	if err != nil {
		return err
	}

	_, err = report.ParseFormat(c.Output.Format)
	if err != nil {
		return err
	}

	_, err = c.LogLevel()
	if err != nil {
		return err
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

func validateThresholds(group string, t maintainability.Thresholds) error {
	if t.Critical < 0 || t.Alert < 0 || t.Critical > t.Alert {
		return fmt.Errorf("%w: %s alert %g, critical %g", ErrInvalidThresholds, group, t.Alert, t.Critical)
	}

	return nil
}

// MaxFileSizeBytes parses analysis.max_file_size, such as "1MB" or "512KiB".
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	return parseSize("max file size", c.Analysis.MaxFileSize)
}

// MaxBodyBytes parses server.max_body_size.
func (c *Config) MaxBodyBytes() (uint64, error) {
	return parseSize("max body size", c.Server.MaxBodySize)
}

func parseSize(what, raw string) (uint64, error) {
	size, err := humanize.ParseBytes(raw)
	if err != nil || size == 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidFileSize, what, raw)
	}

	return size, nil
}

// AnalyzeOptions returns the per-file analyzer options.
func (c *Config) AnalyzeOptions() analyze.Options {
	return analyze.Options{
		Volume:          volume.Options{PrivateIdentifiersAsOperands: c.Analysis.PrivateIdentifiersAsOperands},
		Maintainability: c.Maintainability,
		MaxDepth:        c.Analysis.MaxDepth,
	}
}

// ReportOptions returns the row selection of the tabular formats.
func (c *Config) ReportOptions() (report.Options, error) {
	key, err := report.ParseSortKey(c.Output.Sort)
	if err != nil {
		return report.Options{}, err
	}

	opts := report.Options{
		Sort:    key,
		Desc:    c.Output.Desc,
		Limit:   c.Output.Limit,
		NoColor: c.Output.NoColor,
	}

	if c.Output.MinSeverity != "" {
		opts.MinSeverity, err = maintainability.ParseSeverity(c.Output.MinSeverity)
		if err != nil {
			return report.Options{}, err
		}
	}

	return opts, nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}

// Observability returns the telemetry setup for mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Environment = c.Telemetry.Environment
	cfg.Mode = mode
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.Prometheus = c.Telemetry.Prometheus && mode == observability.ModeServe
	cfg.DebugTrace = c.Telemetry.DebugTrace
	cfg.SampleRatio = c.Telemetry.SampleRatio
	cfg.TraceVerbose = c.Telemetry.TraceVerbose
	cfg.LogJSON = c.Logging.JSON

	if level, err := c.LogLevel(); err == nil {
		cfg.LogLevel = level
	}

	return cfg
}

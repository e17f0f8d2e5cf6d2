package config

import "github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"

// Analysis defaults. Zero workers means one per CPU; zero depth is unlimited.
const (
	DefaultWorkers                      = 0
	DefaultMaxFileSize                  = "1MB"
	DefaultMaxDepth                     = 0
	DefaultPrivateIdentifiersAsOperands = true
)

// Maintainability defaults.
const (
	DefaultClampUpper      = true
	DefaultHalveAggregates = false
)

// Output defaults.
const (
	DefaultFormat      = "text"
	DefaultSort        = "path"
	DefaultMinSeverity = "normal"
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Server defaults.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8080
	DefaultReadTimeout     = "30s"
	DefaultWriteTimeout    = "60s"
	DefaultIdleTimeout     = "120s"
	DefaultShutdownTimeout = "10s"
	DefaultMaxBodySize     = "4MB"
)

// Telemetry defaults.
const (
	DefaultEnvironment = "development"
	DefaultPrometheus  = true
	DefaultSampleRatio = 1.0
)

var defaultThresholds = maintainability.DefaultOptions()

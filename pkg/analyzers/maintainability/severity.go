package maintainability

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
)

// Severity is the health state derived from the index.
type Severity string

// Severities, from healthiest.
const (
	SeverityNormal   Severity = "normal"
	SeverityAlert    Severity = "alert"
	SeverityCritical Severity = "critical"
)

// ParseSeverity resolves a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(name))) {
	case SeverityNormal:
		return SeverityNormal, nil
	case SeverityAlert:
		return SeverityAlert, nil
	case SeverityCritical:
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("unknown severity %q", name)
	}
}

// Rank orders severities: normal 0, alert 1, critical 2.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityAlert:
		return 1
	case SeverityNormal:
		return 0
	default:
		return 0
	}
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// Thresholds are the index cut-points below which a scope is alerted or critical.
type Thresholds struct {
	Alert    float64 `mapstructure:"alert"    json:"alert"    yaml:"alert"`
	Critical float64 `mapstructure:"critical" json:"critical" yaml:"critical"`
}

// Classify maps an index to a severity. An index of exactly 0 is always
// critical, so a Critical threshold of 0 means "critical only at 0".
func (t Thresholds) Classify(mi float64) Severity {
	switch {
	case mi <= 0 || mi < t.Critical:
		return SeverityCritical
	case mi < t.Alert:
		return SeverityAlert
	default:
		return SeverityNormal
	}
}

// Options configures the index formula and severity tables.
type Options struct {
	// ClampUpper caps the index at 100.
	ClampUpper bool `mapstructure:"clamp_upper" json:"clamp_upper" yaml:"clamp_upper"`
	// HalveAggregates halves every input of class and file scopes that
	// have children before evaluating the formula.
	HalveAggregates bool `mapstructure:"halve_aggregates" json:"halve_aggregates" yaml:"halve_aggregates"`
	// Unit applies to functions, methods and objects.
	Unit Thresholds `mapstructure:"unit" json:"unit" yaml:"unit"`
	// Aggregate applies to classes and files.
	Aggregate Thresholds `mapstructure:"aggregate" json:"aggregate" yaml:"aggregate"`
}

// Default thresholds.
const (
	DefaultUnitAlert         = 20
	DefaultUnitCritical      = 10
	DefaultAggregateAlert    = 30
	DefaultAggregateCritical = 10
)

// DefaultOptions returns the default formula and thresholds.
func DefaultOptions() Options {
	return Options{
		ClampUpper: true,
		Unit:       Thresholds{Alert: DefaultUnitAlert, Critical: DefaultUnitCritical},
		Aggregate:  Thresholds{Alert: DefaultAggregateAlert, Critical: DefaultAggregateCritical},
	}
}

// Classify returns the severity of an index for the given scope kind.
func (o Options) Classify(kind scope.Kind, mi float64) Severity {
	if kind.IsAggregate() {
		return o.Aggregate.Classify(mi)
	}

	return o.Unit.Classify(mi)
}

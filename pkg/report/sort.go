package report

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
)

// ErrUnknownSortKey is returned for unsupported sort keys.
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey selects the row ordering.
type SortKey string

// Sort keys.
const (
	SortMI         SortKey = "mi"
	SortCyclomatic SortKey = "cyclomatic"
	SortCognitive  SortKey = "cognitive"
	SortVolume     SortKey = "volume"
	SortLines      SortKey = "lines"
	SortName       SortKey = "name"
	SortPath       SortKey = "path"
)

// SortKeys lists the supported sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortMI, SortCyclomatic, SortCognitive, SortVolume, SortLines, SortName, SortPath}
}

// ParseSortKey resolves a sort key name. The empty string selects SortPath.
func ParseSortKey(name string) (SortKey, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SortPath, nil
	}

	for _, key := range SortKeys() {
		if string(key) == name {
			return key, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownSortKey, name)
}

// Sort orders rows in place by key. Ties keep flatten order, so sorting by
// path restores the tree order.
func Sort(rows []Row, key SortKey, desc bool) {
	compare := comparator(key)

	slices.SortStableFunc(rows, func(a, b Row) int {
		c := compare(a, b)
		if desc {
			c = -c
		}

		if c != 0 {
			return c
		}

		return a.Order - b.Order
	})
}

func comparator(key SortKey) func(a, b Row) int {
	switch key {
	case SortMI:
		return func(a, b Row) int { return cmp.Compare(a.MaintainabilityIndex, b.MaintainabilityIndex) }
	case SortCyclomatic:
		return func(a, b Row) int { return cmp.Compare(a.Cyclomatic, b.Cyclomatic) }
	case SortCognitive:
		return func(a, b Row) int { return cmp.Compare(a.Cognitive, b.Cognitive) }
	case SortVolume:
		return func(a, b Row) int { return cmp.Compare(a.SemanticVolume.Volume, b.SemanticVolume.Volume) }
	case SortLines:
		return func(a, b Row) int { return cmp.Compare(a.Lines(), b.Lines()) }
	case SortName:
		return func(a, b Row) int { return strings.Compare(a.Name, b.Name) }
	default:
		return func(a, b Row) int { return cmp.Compare(a.Order, b.Order) }
	}
}

// Filter returns the rows at or above the minimum severity. An empty
// minimum keeps every row.
func Filter(rows []Row, minimum maintainability.Severity) []Row {
	if minimum == "" || minimum == maintainability.SeverityNormal {
		return rows
	}

	kept := make([]Row, 0, len(rows))

	for _, row := range rows {
		if row.Severity.AtLeast(minimum) {
			kept = append(kept, row)
		}
	}

	return kept
}

package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/volume"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
)

func syntheticRows() []report.Row {
	return []report.Row{
		{Path: "a.ts", Name: "a.ts", Order: 0, MaintainabilityIndex: 60, Cyclomatic: 5, Cognitive: 4,
			Severity: maintainability.SeverityNormal, SemanticVolume: volume.Score{Volume: 90, Lines: 30}},
		{Path: "a.ts::zeta", Name: "zeta", ParentPath: "a.ts", Order: 1, MaintainabilityIndex: 15, Cyclomatic: 4, Cognitive: 4,
			Severity: maintainability.SeverityAlert, SemanticVolume: volume.Score{Volume: 70, Lines: 20}},
		{Path: "a.ts::alpha", Name: "alpha", ParentPath: "a.ts", Order: 2, MaintainabilityIndex: 0, Cyclomatic: 1, Cognitive: 0,
			Severity: maintainability.SeverityCritical, SemanticVolume: volume.Score{Volume: 20, Lines: 5}},
		{Path: "a.ts::mid", Name: "mid", ParentPath: "a.ts", Order: 3, MaintainabilityIndex: 15, Cyclomatic: 2, Cognitive: 1,
			Severity: maintainability.SeverityAlert, SemanticVolume: volume.Score{Volume: 40, Lines: 10}},
	}
}

func names(rows []report.Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Name
	}

	return out
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  report.SortKey
		desc bool
		want []string
	}{
		{key: report.SortMI, want: []string{"alpha", "zeta", "mid", "a.ts"}},
		{key: report.SortMI, desc: true, want: []string{"a.ts", "zeta", "mid", "alpha"}},
		{key: report.SortCyclomatic, desc: true, want: []string{"a.ts", "zeta", "mid", "alpha"}},
		{key: report.SortCognitive, want: []string{"alpha", "mid", "a.ts", "zeta"}},
		{key: report.SortVolume, want: []string{"alpha", "mid", "zeta", "a.ts"}},
		{key: report.SortLines, desc: true, want: []string{"a.ts", "zeta", "mid", "alpha"}},
		{key: report.SortName, want: []string{"a.ts", "alpha", "mid", "zeta"}},
		{key: report.SortPath, want: []string{"a.ts", "zeta", "alpha", "mid"}},
	}

	for _, tt := range tests {
		name := string(tt.key)
		if tt.desc {
			name += " desc"
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rows := syntheticRows()
			report.Sort(rows, tt.key, tt.desc)
			assert.Equal(t, tt.want, names(rows))
		})
	}
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	key, err := report.ParseSortKey(" MI ")
	require.NoError(t, err)
	assert.Equal(t, report.SortMI, key)

	key, err = report.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, report.SortPath, key)

	_, err = report.ParseSortKey("size")
	require.ErrorIs(t, err, report.ErrUnknownSortKey)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	rows := syntheticRows()

	assert.Len(t, report.Filter(rows, ""), 4)
	assert.Len(t, report.Filter(rows, maintainability.SeverityNormal), 4)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(report.Filter(rows, maintainability.SeverityAlert)))
	assert.Equal(t, []string{"alpha"}, names(report.Filter(rows, maintainability.SeverityCritical)))
}

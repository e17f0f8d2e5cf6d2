package report_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
)

func TestSchema_IsJSON(t *testing.T) {
	t.Parallel()

	var schema map[string]any
	require.NoError(t, json.Unmarshal(report.Schema(), &schema))
	assert.Equal(t, "tsmetrics report", schema["title"])
}

func TestValidate_Violations(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"missing files":    `{"version": "1", "summary": {"files": 0, "scopes": 0, "normal": 0, "alert": 0, "critical": 0, "average_mi": 0, "min_mi": 0}}`,
		"unknown version":  `{"version": "9", "summary": {"files": 0, "scopes": 0, "normal": 0, "alert": 0, "critical": 0, "average_mi": 0, "min_mi": 0}, "files": []}`,
		"bad skip reason":  `{"version": "1", "summary": {"files": 0, "scopes": 0, "normal": 0, "alert": 0, "critical": 0, "average_mi": 0, "min_mi": 0}, "files": [], "skipped": [{"path": "a", "reason": "boring"}]}`,
		"negative counter": `{"version": "1", "summary": {"files": -1, "scopes": 0, "normal": 0, "alert": 0, "critical": 0, "average_mi": 0, "min_mi": 0}, "files": []}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			violations, err := report.Validate([]byte(doc))
			require.ErrorIs(t, err, report.ErrInvalidReport)
			assert.NotEmpty(t, violations)
		})
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	_, err := report.Validate([]byte(`{"version":`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, report.ErrInvalidReport)
}

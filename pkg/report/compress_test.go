package report_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
)

func TestCompress_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte(`{"maintainability_index": 42.5}`), 200)

	var buf bytes.Buffer

	w := report.NewWriter(&buf, "out/report.json.LZ4")
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Less(t, buf.Len(), len(payload))
	assert.NotEqual(t, payload, buf.Bytes())

	got, err := io.ReadAll(report.NewReader(&buf, "report.json.lz4"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCompress_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := report.NewWriter(&buf, "report.json")
	_, err := w.Write([]byte("plain"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "plain", buf.String())
	assert.False(t, report.IsCompressed("report.json"))
	assert.True(t, report.IsCompressed("report.json.lz4"))

	got, err := io.ReadAll(report.NewReader(&buf, "report.json"))
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))
}

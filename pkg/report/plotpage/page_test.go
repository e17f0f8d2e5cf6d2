package plotpage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingChart struct{}

func (failingChart) Render(io.Writer) error { return errors.New("boom") }

func TestChartContent(t *testing.T) {
	t.Parallel()

	standalone := `<!DOCTYPE html>
<html><head><title>x</title></head>
<body>
<div class="container"><style>.x{}</style><div class="item" id="c1"></div></div>
<script>init()</script>
</body></html>`

	got := chartContent(standalone)

	assert.Contains(t, got, `<div class="chart">`)
	assert.Contains(t, got, `<script>init()</script>`)
	assert.NotContains(t, got, "<style>")
	assert.NotContains(t, got, "<title>")

	assert.Equal(t, "<div>fragment</div>", chartContent("<div>fragment</div>"))
}

func TestPage_Render(t *testing.T) {
	t.Parallel()

	co := NewChartOpts(ThemeDark)
	palette := ThemeDark.Palette()

	page := NewPage("Report", "2 files").WithTheme(ThemeDark)
	page.Add(
		Section{
			Title: "Bars",
			Hints: []string{"Lower is worse."},
			Chart: co.Bar("MI", "MI", []BarPoint{{Label: "f", Value: 12, Color: palette.Alert}}),
		},
		Section{
			Title:    "Points",
			Subtitle: "one per function",
			Chart: co.Scatter("Complexity", "x", "y", []ScatterGroup{
				{Name: "normal", Color: palette.Normal, Points: []ScatterPoint{{Name: "f", X: 1, Y: 2}}},
				{Name: "alert", Color: palette.Alert},
			}),
		},
		Section{Title: "Pie", Chart: co.Pie("Severity", []Slice{{Name: "normal", Value: 3, Color: palette.Normal}})},
		Section{Title: "Empty", Chart: co.Bar("Nothing", "MI", nil)},
	)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Equal(t, 1, strings.Count(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>Report</h1>")
	assert.Contains(t, out, "<li>Lower is worse.</li>")
	assert.Contains(t, out, "one per function")
	assert.Contains(t, out, "No data")
	assert.Contains(t, out, darkTheme.Background)
	assert.Equal(t, 4, strings.Count(out, `class="chart"`))
}

func TestPage_RenderChartError(t *testing.T) {
	t.Parallel()

	page := NewPage("Report", "")
	page.Add(Section{Title: "Broken", Chart: failingChart{}})

	err := page.Render(io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Broken"`)
}

func TestTheme_Fallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lightTheme, Theme("sepia").Config())
	assert.Equal(t, lightPalette, Theme("sepia").Palette())
	assert.Equal(t, darkPalette, ThemeDark.Palette())
}

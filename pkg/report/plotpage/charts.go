package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth      = "100%"
	chartHeight     = "480px"
	emptyHeight     = "320px"
	dataZoomEnd     = 100
	xAxisRotate     = 40
	pieRadius       = "60%"
	pointSymbolSize = 12
)

// BarPoint is one bar with its own color.
type BarPoint struct {
	Label string
	Value float64
	Color string
}

// ScatterPoint is one named point.
type ScatterPoint struct {
	Name string
	X    float64
	Y    float64
}

// ScatterGroup is a series of points sharing a color.
type ScatterGroup struct {
	Name   string
	Color  string
	Points []ScatterPoint
}

// Slice is one pie slice.
type Slice struct {
	Name  string
	Value int
	Color string
}

// ChartOpts builds themed go-echarts options.
type ChartOpts struct {
	theme ThemeConfig
}

// NewChartOpts creates options for theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: theme.Config()}
}

func (c *ChartOpts) init(height string) opts.Initialization {
	return opts.Initialization{Width: chartWidth, Height: height, BackgroundColor: "transparent"}
}

func (c *ChartOpts) tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}

func (c *ChartOpts) grid() opts.Grid {
	return opts.Grid{Top: "12%", Bottom: "18%", Left: "5%", Right: "5%", ContainLabel: opts.Bool(true)}
}

func (c *ChartOpts) xAxis(name string, rotate float64) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Rotate: rotate, Interval: "0", Color: c.theme.ChartTextMute},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

func (c *ChartOpts) yAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMute},
		SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid}},
	}
}

func (c *ChartOpts) title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.ChartText},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.ChartTextMute},
	}
}

// Bar builds a single-series bar chart. Without points it renders an
// empty chart titled "No data".
func (c *ChartOpts) Bar(series, yName string, points []BarPoint) *charts.Bar {
	bar := charts.NewBar()

	if len(points) == 0 {
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(c.init(emptyHeight)),
			charts.WithTitleOpts(c.title(series, "No data")),
		)

		return bar
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(c.init(chartHeight)),
		charts.WithTooltipOpts(c.tooltip("axis")),
		charts.WithGridOpts(c.grid()),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: dataZoomEnd},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithXAxisOpts(c.xAxis("", xAxisRotate)),
		charts.WithYAxisOpts(c.yAxis(yName)),
	)

	labels := make([]string, len(points))
	data := make([]opts.BarData, len(points))

	for i, p := range points {
		labels[i] = p.Label
		data[i] = opts.BarData{Name: p.Label, Value: p.Value, ItemStyle: &opts.ItemStyle{Color: p.Color}}
	}

	bar.SetXAxis(labels)
	bar.AddSeries(series, data)

	return bar
}

// Scatter builds a scatter chart with one series per non-empty group.
func (c *ChartOpts) Scatter(title, xName, yName string, groups []ScatterGroup) *charts.Scatter {
	scatter := charts.NewScatter()

	total := 0
	for _, g := range groups {
		total += len(g.Points)
	}

	if total == 0 {
		scatter.SetGlobalOptions(
			charts.WithInitializationOpts(c.init(emptyHeight)),
			charts.WithTitleOpts(c.title(title, "No data")),
		)

		return scatter
	}

	x := c.xAxis(xName, 0)
	x.Type = "value"

	y := c.yAxis(yName)
	y.Type = "value"

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(c.init(chartHeight)),
		charts.WithTooltipOpts(c.tooltip("item")),
		charts.WithGridOpts(c.grid()),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "0",
			TextStyle: &opts.TextStyle{Color: c.theme.ChartTextMute},
		}),
		charts.WithXAxisOpts(x),
		charts.WithYAxisOpts(y),
	)

	for _, g := range groups {
		if len(g.Points) == 0 {
			continue
		}

		data := make([]opts.ScatterData, len(g.Points))
		for i, p := range g.Points {
			data[i] = opts.ScatterData{Value: []any{p.X, p.Y, p.Name}, SymbolSize: pointSymbolSize}
		}

		scatter.AddSeries(g.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: g.Color}))
	}

	return scatter
}

// Pie builds a labeled pie chart.
func (c *ChartOpts) Pie(series string, slices []Slice) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(c.init(chartHeight)),
		charts.WithTooltipOpts(c.tooltip("item")),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: c.theme.ChartTextMute},
		}),
	)

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{Name: s.Name, Value: s.Value, ItemStyle: &opts.ItemStyle{Color: s.Color}}
	}

	pie.AddSeries(series, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c} ({d}%)",
			Color:     c.theme.ChartTextMute,
		}),
		charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
	)

	return pie
}

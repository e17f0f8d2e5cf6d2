package report

import (
	"io"
	"strconv"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/report/plotpage"
)

const lowestLimit = 25

func renderPlot(w io.Writer, doc *Document, opts Options) error {
	rows := Filter(Flatten(doc.Files...), opts.MinSeverity)

	var units []Row

	for _, row := range rows {
		if row.Scope == scope.KindFunction || row.Scope == scope.KindMethod {
			units = append(units, row)
		}
	}

	lowest := append([]Row(nil), units...)
	Sort(lowest, SortMI, false)

	if len(lowest) > lowestLimit {
		lowest = lowest[:lowestLimit]
	}

	theme := plotpage.ThemeLight
	palette := theme.Palette()
	co := plotpage.NewChartOpts(theme)

	page := plotpage.NewPage(
		"Maintainability Report",
		strconv.Itoa(doc.Summary.Files)+" files, "+strconv.Itoa(doc.Summary.Scopes)+" scopes",
	).WithTheme(theme)

	page.Add(
		plotpage.Section{
			Title:    "Least Maintainable Functions",
			Subtitle: "Functions and methods with the lowest maintainability index.",
			Chart:    co.Bar("Maintainability index", "MI", barPoints(lowest, palette)),
			Hints: []string{
				"Bars are colored by severity.",
				"The lower the bar, the harder the function is to change.",
			},
		},
		plotpage.Section{
			Title:    "Cyclomatic vs Cognitive Complexity",
			Subtitle: "One point per function or method.",
			Chart:    co.Scatter("Complexity", "Cyclomatic", "Cognitive", scatterGroups(units, palette)),
			Hints: []string{
				"Points far above the diagonal are deeply nested.",
				"Points far right of the diagonal have many flat branches.",
			},
		},
		plotpage.Section{
			Title:    "Severity Distribution",
			Subtitle: "Scopes of every kind by severity.",
			Chart: co.Pie("Severity", []plotpage.Slice{
				{Name: string(maintainability.SeverityNormal), Value: doc.Summary.Normal, Color: palette.Normal},
				{Name: string(maintainability.SeverityAlert), Value: doc.Summary.Alert, Color: palette.Alert},
				{Name: string(maintainability.SeverityCritical), Value: doc.Summary.Critical, Color: palette.Critical},
			}),
		},
	)

	return page.Render(w)
}

func severityColor(s maintainability.Severity, palette plotpage.Palette) string {
	switch s {
	case maintainability.SeverityCritical:
		return palette.Critical
	case maintainability.SeverityAlert:
		return palette.Alert
	default:
		return palette.Normal
	}
}

func barPoints(rows []Row, palette plotpage.Palette) []plotpage.BarPoint {
	points := make([]plotpage.BarPoint, len(rows))

	for i, row := range rows {
		points[i] = plotpage.BarPoint{
			Label: row.LocalPath(),
			Value: row.MaintainabilityIndex,
			Color: severityColor(row.Severity, palette),
		}
	}

	return points
}

func scatterGroups(rows []Row, palette plotpage.Palette) []plotpage.ScatterGroup {
	severities := []maintainability.Severity{
		maintainability.SeverityNormal,
		maintainability.SeverityAlert,
		maintainability.SeverityCritical,
	}

	groups := make([]plotpage.ScatterGroup, len(severities))
	index := make(map[maintainability.Severity]int, len(severities))

	for i, s := range severities {
		groups[i] = plotpage.ScatterGroup{Name: string(s), Color: severityColor(s, palette)}
		index[s] = i
	}

	for _, row := range rows {
		g := index[row.Severity]
		groups[g].Points = append(groups[g].Points, plotpage.ScatterPoint{
			Name: row.Path,
			X:    float64(row.Cyclomatic),
			Y:    float64(row.Cognitive),
		})
	}

	return groups
}

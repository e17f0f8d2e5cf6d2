package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output format.
type Format string

// Output formats.
const (
	FormatText     Format = "text"
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatPlot     Format = "plot"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatCompact, FormatJSON, FormatYAML, FormatMarkdown, FormatCSV, FormatHTML, FormatPlot}
}

// ParseFormat resolves a format name. "md" and "yml" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	}

	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// Options controls which rows the tabular formats show and how.
type Options struct {
	Sort        SortKey
	Desc        bool
	MinSeverity maintainability.Severity
	Limit       int
	NoColor     bool
}

// DefaultOptions returns rows in tree order with no filtering.
func DefaultOptions() Options {
	return Options{Sort: SortPath}
}

// Rows flattens doc and applies the filter, ordering and limit.
func (o Options) Rows(doc *Document) []Row {
	rows := Filter(Flatten(doc.Files...), o.MinSeverity)
	Sort(rows, o.Sort, o.Desc)

	if o.Limit > 0 && len(rows) > o.Limit {
		rows = rows[:o.Limit]
	}

	return rows
}

// Render writes doc in format. JSON and YAML carry the full trees; the other
// formats show the rows selected by opts.
func Render(w io.Writer, format Format, doc *Document, opts Options) error {
	var err error

	switch format {
	case FormatJSON:
		err = renderJSON(w, doc)
	case FormatYAML:
		err = renderYAML(w, doc)
	case FormatText:
		err = renderText(w, doc, opts)
	case FormatCompact:
		err = renderCompact(w, doc, opts)
	case FormatMarkdown:
		_, err = io.WriteString(w, newTable(opts.Rows(doc), nil).RenderMarkdown()+"\n")
	case FormatCSV:
		_, err = io.WriteString(w, newTable(opts.Rows(doc), nil).RenderCSV()+"\n")
	case FormatHTML:
		_, err = io.WriteString(w, newTable(opts.Rows(doc), nil).RenderHTML()+"\n")
	case FormatPlot:
		err = renderPlot(w, doc, opts)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	return nil
}

func renderJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}

func renderYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(doc)
	if err != nil {
		return err
	}

	return enc.Close()
}

// severityPainter colors severities for terminals.
type severityPainter struct {
	alert    *color.Color
	critical *color.Color
	normal   *color.Color
}

func newSeverityPainter(noColor bool) *severityPainter {
	p := &severityPainter{
		alert:    color.New(color.FgYellow),
		critical: color.New(color.FgRed, color.Bold),
		normal:   color.New(color.FgGreen),
	}

	if noColor {
		p.alert.DisableColor()
		p.critical.DisableColor()
		p.normal.DisableColor()
	}

	return p
}

func (p *severityPainter) paint(s maintainability.Severity) string {
	if p == nil {
		return string(s)
	}

	switch s {
	case maintainability.SeverityCritical:
		return p.critical.Sprint(s)
	case maintainability.SeverityAlert:
		return p.alert.Sprint(s)
	default:
		return p.normal.Sprint(s)
	}
}

func newTable(rows []Row, painter *severityPainter) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"File", "Scope", "Kind", "Line", "Lines", "MI", "Severity", "Cyclomatic", "Cognitive", "Volume"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})

	for _, row := range rows {
		name := row.LocalPath()
		if row.ParentPath == "" {
			name = ""
		}

		tbl.AppendRow(table.Row{
			row.FilePath,
			name,
			string(row.Scope),
			row.StartLine,
			row.Lines(),
			strconv.FormatFloat(row.MaintainabilityIndex, 'f', 1, 64),
			painter.paint(row.Severity),
			row.Cyclomatic,
			row.Cognitive,
			strconv.FormatFloat(row.SemanticVolume.Volume, 'f', 1, 64),
		})
	}

	return tbl
}

func renderText(w io.Writer, doc *Document, opts Options) error {
	rows := opts.Rows(doc)

	if len(rows) > 0 {
		_, err := io.WriteString(w, newTable(rows, newSeverityPainter(opts.NoColor)).Render()+"\n\n")
		if err != nil {
			return err
		}
	}

	return writeSummary(w, doc.Summary, newSeverityPainter(opts.NoColor))
}

func writeSummary(w io.Writer, s Summary, painter *severityPainter) error {
	_, err := fmt.Fprintf(w,
		"Files: %s  Scopes: %s  %s: %s  %s: %s  Average MI: %s  Lowest MI: %s\n",
		humanize.Comma(int64(s.Files)),
		humanize.Comma(int64(s.Scopes)),
		painter.paint(maintainability.SeverityAlert), humanize.Comma(int64(s.Alert)),
		painter.paint(maintainability.SeverityCritical), humanize.Comma(int64(s.Critical)),
		humanize.FtoaWithDigits(s.AverageMI, 1),
		humanize.FtoaWithDigits(s.MinMI, 1),
	)
	if err != nil {
		return err
	}

	if s.Skipped > 0 || s.Failed > 0 {
		_, err = fmt.Fprintf(w, "Skipped: %s  Failed: %s\n", humanize.Comma(int64(s.Skipped)), humanize.Comma(int64(s.Failed)))
	}

	return err
}

func renderCompact(w io.Writer, doc *Document, opts Options) error {
	painter := newSeverityPainter(opts.NoColor)

	for _, row := range opts.Rows(doc) {
		_, err := fmt.Fprintf(w, "%s:%d %s %s mi=%.1f cyc=%d cog=%d vol=%.1f %s\n",
			row.FilePath, row.StartLine, row.Scope, row.LocalPath(),
			row.MaintainabilityIndex, row.Cyclomatic, row.Cognitive, row.SemanticVolume.Volume,
			painter.paint(row.Severity))
		if err != nil {
			return err
		}
	}

	return nil
}

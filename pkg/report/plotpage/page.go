// Package plotpage assembles go-echarts charts into a single themed HTML page.
package plotpage

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
)

//go:embed templates/page.html
var pageTemplate string

const styleTagLen = len("</style>")

var (
	parsed     *template.Template
	parseOnce  sync.Once
	errParsing error
)

// Renderable is anything that renders itself as HTML, such as a go-echarts chart.
type Renderable interface {
	Render(w io.Writer) error
}

// Section is one titled chart of a page with optional reading hints.
type Section struct {
	Title    string
	Subtitle string
	Hints    []string
	Chart    Renderable
}

// Page is a complete visualization page.
type Page struct {
	Title       string
	Description string
	Theme       Theme
	Sections    []Section
}

// NewPage creates a light-themed page.
func NewPage(title, description string) *Page {
	return &Page{Title: title, Description: description, Theme: ThemeLight}
}

// WithTheme sets the page theme.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

type sectionData struct {
	Title    string
	Subtitle string
	Hints    []string
	Chart    template.HTML
}

type pageData struct {
	Title       string
	Description string
	Theme       ThemeConfig
	Sections    []sectionData
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	tmpl, err := pageTmpl()
	if err != nil {
		return err
	}

	data := pageData{
		Title:       p.Title,
		Description: p.Description,
		Theme:       p.Theme.Config(),
		Sections:    make([]sectionData, 0, len(p.Sections)),
	}

	for _, section := range p.Sections {
		chart, chartErr := renderChart(section.Chart)
		if chartErr != nil {
			return fmt.Errorf("render section %q: %w", section.Title, chartErr)
		}

		data.Sections = append(data.Sections, sectionData{
			Title:    section.Title,
			Subtitle: section.Subtitle,
			Hints:    section.Hints,
			Chart:    template.HTML(chart), //nolint:gosec // go-echarts output
		})
	}

	err = tmpl.Execute(w, data)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

func pageTmpl() (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, errParsing = template.New("page").Parse(pageTemplate)
		if errParsing != nil {
			errParsing = fmt.Errorf("parse page template: %w", errParsing)
		}
	})

	return parsed, errParsing
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	return chartContent(buf.String()), nil
}

// chartContent cuts the chart container and script out of the standalone
// page go-echarts renders.
func chartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)

	if start == -1 || end == -1 || end < start {
		return html
	}

	content := strings.ReplaceAll(html[start:end], `class="container"`, `class="chart"`)

	for {
		open := strings.Index(content, "<style>")
		if open == -1 {
			break
		}

		closing := strings.Index(content[open:], "</style>")
		if closing == -1 {
			break
		}

		content = content[:open] + content[open+closing+styleTagLen:]
	}

	return content
}

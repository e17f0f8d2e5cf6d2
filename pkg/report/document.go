package report

import (
	"math"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
)

// SchemaVersion is the version of the JSON report layout.
const SchemaVersion = "1"

// Summary aggregates a report.
type Summary struct {
	Files     int     `json:"files"      yaml:"files"`
	Scopes    int     `json:"scopes"     yaml:"scopes"`
	Normal    int     `json:"normal"     yaml:"normal"`
	Alert     int     `json:"alert"      yaml:"alert"`
	Critical  int     `json:"critical"   yaml:"critical"`
	AverageMI float64 `json:"average_mi" yaml:"average_mi"`
	MinMI     float64 `json:"min_mi"     yaml:"min_mi"`
	Skipped   int     `json:"skipped"    yaml:"skipped"`
	Failed    int     `json:"failed"     yaml:"failed"`
}

// Document is the complete report of one run.
type Document struct {
	Version string                      `json:"version"           yaml:"version"`
	Tool    string                      `json:"tool,omitempty"    yaml:"tool,omitempty"`
	Summary Summary                     `json:"summary"           yaml:"summary"`
	Files   []*maintainability.Combined `json:"files"             yaml:"files"`
	Skipped []analyze.Skipped           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed  []analyze.Failure           `json:"failed,omitempty"  yaml:"failed,omitempty"`
}

// NewDocument builds a report from an analysis result.
func NewDocument(result *analyze.Result, tool string) *Document {
	doc := &Document{Version: SchemaVersion, Tool: tool, Files: []*maintainability.Combined{}}

	if result != nil {
		if result.Files != nil {
			doc.Files = result.Files
		}

		doc.Skipped = result.Skipped
		doc.Failed = result.Failed
	}

	doc.Summary = Summarize(doc.Files)
	doc.Summary.Skipped = len(doc.Skipped)
	doc.Summary.Failed = len(doc.Failed)

	return doc
}

// Summarize counts scopes per severity and averages the file-level index.
func Summarize(files []*maintainability.Combined) Summary {
	summary := Summary{Files: len(files)}

	if len(files) == 0 {
		return summary
	}

	summary.MinMI = math.Inf(1)

	var total float64

	for _, file := range files {
		total += file.MaintainabilityIndex

		file.Walk(func(node *maintainability.Combined, _ int) {
			summary.Scopes++
			summary.MinMI = math.Min(summary.MinMI, node.MaintainabilityIndex)

			switch node.Severity {
			case maintainability.SeverityCritical:
				summary.Critical++
			case maintainability.SeverityAlert:
				summary.Alert++
			default:
				summary.Normal++
			}
		})
	}

	summary.AverageMI = total / float64(len(files))

	return summary
}

// WorstSeverity returns the most severe scope severity in the report.
func (d *Document) WorstSeverity() maintainability.Severity {
	switch {
	case d.Summary.Critical > 0:
		return maintainability.SeverityCritical
	case d.Summary.Alert > 0:
		return maintainability.SeverityAlert
	default:
		return maintainability.SeverityNormal
	}
}

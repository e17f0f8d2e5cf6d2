package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/safeconv"
)

// Diagnostics reports every alert or critical scope of root on the line
// where the scope starts. text supplies the line widths.
func Diagnostics(root *maintainability.Combined, text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	if root == nil {
		return diagnostics
	}

	lines := strings.Split(text, "\n")
	source := diagnosticSource

	root.Walk(func(node *maintainability.Combined, _ int) {
		var severity protocol.DiagnosticSeverity

		switch node.Severity {
		case maintainability.SeverityCritical:
			severity = protocol.DiagnosticSeverityError
		case maintainability.SeverityAlert:
			severity = protocol.DiagnosticSeverityWarning
		default:
			return
		}

		line := max(node.StartLine-1, 0)
		width := 0

		if line < len(lines) {
			width = len(strings.TrimRight(lines[line], "\r"))
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: safeconv.ClampIntToUint32(line)},
				End:   protocol.Position{Line: safeconv.ClampIntToUint32(line), Character: safeconv.ClampIntToUint32(width)},
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: string(node.Severity)},
			Source:   &source,
			Message:  message(node),
		})
	})

	return diagnostics
}

func message(node *maintainability.Combined) string {
	return fmt.Sprintf("%s %s has a maintainability index of %.1f (cyclomatic %d, cognitive %d, volume %.1f)",
		node.Scope, displayName(node), node.MaintainabilityIndex,
		node.Cyclomatic, node.Cognitive, node.SemanticVolume.Volume)
}

func displayName(node *maintainability.Combined) string {
	if node.Scope == scope.KindFile {
		return pathBase(node.Name)
	}

	return node.Name
}

func pathBase(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}

	return path
}

// Innermost returns the deepest scope of root spanning line, or nil when
// the line lies outside root.
func Innermost(root *maintainability.Combined, line int) *maintainability.Combined {
	if root == nil || line < root.StartLine || line > root.EndLine {
		return nil
	}

	for _, child := range root.Children {
		if found := Innermost(child, line); found != nil {
			return found
		}
	}

	return root
}

// HoverAt describes the innermost scope spanning the 1-based line.
func HoverAt(root *maintainability.Combined, line int) *protocol.Hover {
	node := Innermost(root, line)
	if node == nil {
		return nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "**%s** `%s`\n\n", node.Scope, displayName(node))
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Maintainability index | %.1f (%s) |\n", node.MaintainabilityIndex, node.Severity)
	fmt.Fprintf(&b, "| Cyclomatic | %d |\n", node.Cyclomatic)
	fmt.Fprintf(&b, "| Cognitive | %d |\n", node.Cognitive)
	fmt.Fprintf(&b, "| Semantic volume | %.1f |\n", node.SemanticVolume.Volume)
	fmt.Fprintf(&b, "| Lines | %d |\n", node.SemanticVolume.Lines)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: safeconv.ClampIntToUint32(node.StartLine - 1)},
			End:   protocol.Position{Line: safeconv.ClampIntToUint32(node.EndLine - 1)},
		},
	}
}

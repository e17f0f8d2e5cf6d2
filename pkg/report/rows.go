// Package report turns combined metrics trees into flat rows and renders
// them in the supported output formats.
package report

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/volume"
)

// PathSeparator joins scope names in a row path.
const PathSeparator = "::"

// Nest errors.
var (
	ErrOrphanRow     = errors.New("report: row parent not found")
	ErrDuplicatePath = errors.New("report: duplicate row path")
)

// Row is one scope of a combined tree. Path is the chain of scope names from
// the file down to this scope; ParentPath is empty for files.
type Row struct {
	FilePath             string                   `json:"file_path"             yaml:"file_path"`
	Path                 string                   `json:"path"                  yaml:"path"`
	ParentPath           string                   `json:"parent_path,omitempty" yaml:"parent_path,omitempty"`
	Name                 string                   `json:"name"                  yaml:"name"`
	Scope                scope.Kind               `json:"scope"                 yaml:"scope"`
	Depth                int                      `json:"depth"                 yaml:"depth"`
	Order                int                      `json:"order"                 yaml:"order"`
	StartLine            int                      `json:"start_line"            yaml:"start_line"`
	EndLine              int                      `json:"end_line"              yaml:"end_line"`
	MaintainabilityIndex float64                  `json:"maintainability_index" yaml:"maintainability_index"`
	Severity             maintainability.Severity `json:"severity"              yaml:"severity"`
	Cyclomatic           int                      `json:"cyclomatic"            yaml:"cyclomatic"`
	Cognitive            int                      `json:"cognitive"             yaml:"cognitive"`
	SemanticVolume       volume.Score             `json:"semantic_volume"       yaml:"semantic_volume"`
}

// Lines returns the line count of the scope.
func (r Row) Lines() int {
	return r.SemanticVolume.Lines
}

// LocalPath returns the path below the file, or the file path for file rows.
func (r Row) LocalPath() string {
	if r.ParentPath == "" {
		return r.Path
	}

	return r.Path[len(r.FilePath)+len(PathSeparator):]
}

// Flatten lists every scope of roots in pre-order. Sibling scopes sharing a
// name are told apart by an [i] suffix on their path segment.
func Flatten(roots ...*maintainability.Combined) []Row {
	var rows []Row

	for _, root := range roots {
		if root == nil {
			continue
		}

		rows = flatten(rows, root, root.Name, "", 0)
	}

	return rows
}

func flatten(rows []Row, node *maintainability.Combined, path, parent string, depth int) []Row {
	rows = append(rows, Row{
		FilePath:             node.FilePath,
		Path:                 path,
		ParentPath:           parent,
		Name:                 node.Name,
		Scope:                node.Scope,
		Depth:                depth,
		Order:                len(rows),
		StartLine:            node.StartLine,
		EndLine:              node.EndLine,
		MaintainabilityIndex: node.MaintainabilityIndex,
		Severity:             node.Severity,
		Cyclomatic:           node.Cyclomatic,
		Cognitive:            node.Cognitive,
		SemanticVolume:       node.SemanticVolume,
	})

	counts := make(map[string]int, len(node.Children))
	for _, child := range node.Children {
		counts[child.Name]++
	}

	seen := make(map[string]int, len(counts))

	for _, child := range node.Children {
		segment := child.Name

		if counts[child.Name] > 1 {
			segment += "[" + strconv.Itoa(seen[child.Name]) + "]"
			seen[child.Name]++
		}

		rows = flatten(rows, child, path+PathSeparator+segment, path, depth+1)
	}

	return rows
}

// Nest rebuilds the trees that Flatten produced. Rows may come in any
// order; siblings are restored in their original order.
func Nest(rows []Row) ([]*maintainability.Combined, error) {
	ordered := slices.Clone(rows)
	slices.SortStableFunc(ordered, func(a, b Row) int {
		return a.Order - b.Order
	})

	nodes := make(map[string]*maintainability.Combined, len(ordered))

	var roots []*maintainability.Combined

	for _, row := range ordered {
		if _, dup := nodes[row.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, row.Path)
		}

		node := &maintainability.Combined{
			FilePath:             row.FilePath,
			Name:                 row.Name,
			Scope:                row.Scope,
			StartLine:            row.StartLine,
			EndLine:              row.EndLine,
			MaintainabilityIndex: row.MaintainabilityIndex,
			Severity:             row.Severity,
			Cyclomatic:           row.Cyclomatic,
			Cognitive:            row.Cognitive,
			SemanticVolume:       row.SemanticVolume,
		}

		nodes[row.Path] = node

		if row.ParentPath == "" {
			roots = append(roots, node)

			continue
		}

		parent, ok := nodes[row.ParentPath]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOrphanRow, row.Path)
		}

		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

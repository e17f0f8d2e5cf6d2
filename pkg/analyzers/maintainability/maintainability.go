// Package maintainability folds the cyclomatic, cognitive and volume trees
// of one file into a single tree carrying the maintainability index (MI) and
// a severity per scope.
package maintainability

import (
	"errors"
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/volume"
)

// ErrShapeMismatch is returned when the metric trees of one file disagree on
// scope names, kinds or child counts.
var ErrShapeMismatch = errors.New("maintainability: metric trees are not aligned")

// Index formula coefficients.
const (
	miBase          = 171.0
	miVolumeWeight  = 5.2
	miCyclomatic    = 0.115
	miCognitive     = 0.115
	miLinesWeight   = 16.2
	miScale         = 100.0
	miMax           = 100.0
	aggregateFactor = 2.0
)

// Combined is the merged metrics of one scope.
type Combined struct {
	FilePath             string       `json:"file_path"             yaml:"file_path"`
	Name                 string       `json:"name"                  yaml:"name"`
	Scope                scope.Kind   `json:"scope"                 yaml:"scope"`
	StartLine            int          `json:"start_line"            yaml:"start_line"`
	EndLine              int          `json:"end_line"              yaml:"end_line"`
	MaintainabilityIndex float64      `json:"maintainability_index" yaml:"maintainability_index"`
	Severity             Severity     `json:"severity"              yaml:"severity"`
	Cyclomatic           int          `json:"cyclomatic"            yaml:"cyclomatic"`
	Cognitive            int          `json:"cognitive"             yaml:"cognitive"`
	SemanticVolume       volume.Score `json:"semantic_volume"       yaml:"semantic_volume"`
	Children             []*Combined  `json:"children,omitempty"    yaml:"children,omitempty"`
}

// Walk visits c and its descendants in pre-order.
func (c *Combined) Walk(fn func(node *Combined, depth int)) {
	c.walk(fn, 0)
}

func (c *Combined) walk(fn func(node *Combined, depth int), depth int) {
	if c == nil {
		return
	}

	fn(c, depth)

	for _, child := range c.Children {
		child.walk(fn, depth+1)
	}
}

// Combine zips the three trees produced for the file at path and computes the
// index bottom-up.
func Combine(
	path string,
	cyc *scope.Tree[int],
	cog *scope.Tree[int],
	vol *scope.Tree[volume.Score],
	opts Options,
) (*Combined, error) {
	return combine(path, path, cyc, cog, vol, opts)
}

func combine(
	filePath, at string,
	cyc *scope.Tree[int],
	cog *scope.Tree[int],
	vol *scope.Tree[volume.Score],
	opts Options,
) (*Combined, error) {
	if cyc == nil || cog == nil || vol == nil {
		return nil, fmt.Errorf("%w: missing tree at %s", ErrShapeMismatch, at)
	}

	if cyc.Name != cog.Name || cyc.Name != vol.Name || cyc.Scope != cog.Scope || cyc.Scope != vol.Scope {
		return nil, fmt.Errorf("%w: at %s: %s/%s, %s/%s, %s/%s", ErrShapeMismatch, at,
			cyc.Scope, cyc.Name, cog.Scope, cog.Name, vol.Scope, vol.Name)
	}

	if len(cyc.Children) != len(cog.Children) || len(cyc.Children) != len(vol.Children) {
		return nil, fmt.Errorf("%w: at %s: %d, %d and %d children", ErrShapeMismatch, at,
			len(cyc.Children), len(cog.Children), len(vol.Children))
	}

	node := &Combined{
		FilePath:       filePath,
		Name:           cyc.Name,
		Scope:          cyc.Scope,
		StartLine:      cyc.StartLine,
		EndLine:        cyc.EndLine,
		Cyclomatic:     cyc.Score,
		Cognitive:      cog.Score,
		SemanticVolume: vol.Score,
	}

	if len(cyc.Children) > 0 {
		node.Children = make([]*Combined, 0, len(cyc.Children))
	}

	for i := range cyc.Children {
		child, err := combine(filePath, at+"/"+cyc.Children[i].Name, cyc.Children[i], cog.Children[i], vol.Children[i], opts)
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, child)
	}

	node.MaintainabilityIndex = opts.Index(node)
	node.Severity = opts.Classify(node.Scope, node.MaintainabilityIndex)

	return node, nil
}

// Index computes the maintainability index of a combined scope.
func (o Options) Index(c *Combined) float64 {
	vol := c.SemanticVolume.Volume
	cyc := float64(c.Cyclomatic)
	cog := float64(c.Cognitive)
	lines := float64(c.SemanticVolume.Lines)

	if o.HalveAggregates && c.Scope.IsAggregate() && len(c.Children) > 0 {
		vol /= aggregateFactor
		cyc /= aggregateFactor
		cog /= aggregateFactor
		lines /= aggregateFactor
	}

	return o.MI(vol, cyc, cog, lines)
}

// MI evaluates the index formula, scaled to 0..100.
func (o Options) MI(vol, cyc, cog, lines float64) float64 {
	raw := miBase - miVolumeWeight*ln(vol) - miCyclomatic*cyc - miCognitive*cog - miLinesWeight*ln(lines)
	mi := raw * miScale / miBase

	if mi < 0 {
		return 0
	}

	if o.ClampUpper && mi > miMax {
		return miMax
	}

	return mi
}

// ln is the natural logarithm with non-positive inputs mapped to 0.
func ln(x float64) float64 {
	if x <= 0 {
		return 0
	}

	return math.Log(x)
}

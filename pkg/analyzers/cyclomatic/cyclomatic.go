// Package cyclomatic computes McCabe cyclomatic complexity per scope.
package cyclomatic

import (
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Base is the complexity of a scope without decision points.
const Base = 1

// Scorer counts decision points.
type Scorer struct {
	score int
}

// NewScorer creates a Scorer at the base complexity.
func NewScorer(_ scope.Kind, _ *syntax.Node) scope.Scorer[int] {
	return &Scorer{score: Base}
}

// New creates the file-level cyclomatic analyzer.
func New(path string, root *syntax.Node) *scope.Analyzer[int] {
	return scope.NewFile(path, root, NewScorer)
}

// Analyze implements scope.Scorer.
func (s *Scorer) Analyze(n *syntax.Node, _ int, _ bool) func() {
	if IsDecisionPoint(n) {
		s.score++
	}

	return nil
}

// Score implements scope.Scorer.
func (s *Scorer) Score() int {
	return s.score
}

// IsDecisionPoint reports nodes that add an independent path.
func IsDecisionPoint(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindTernaryExpression, syntax.KindOptionalChain,
		syntax.KindIfStatement, syntax.KindSwitchCase,
		syntax.KindForStatement, syntax.KindForInStatement,
		syntax.KindWhileStatement, syntax.KindDoStatement,
		syntax.KindCatchClause, syntax.KindConditionalType:
		return true
	case syntax.KindBinaryExpression:
		return syntax.Operator(n) == "??"
	case syntax.KindAugmentedAssignmentExpression:
		op := syntax.Operator(n)

		return op == "??=" || op == "||="
	default:
		return false
	}
}

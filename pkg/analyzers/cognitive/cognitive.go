// Package cognitive computes cognitive complexity per scope: control flow
// breaks weighted by how deeply they are nested inside the scope.
package cognitive

import (
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// baseNesting is the nesting level of a scope's own top-level statements.
const baseNesting = 1

// Scorer tracks score and nesting for one scope.
type Scorer struct {
	root  *syntax.Node
	score int
	nest  int
}

// NewScorer creates a Scorer for the scope rooted at root.
func NewScorer(_ scope.Kind, root *syntax.Node) scope.Scorer[int] {
	return &Scorer{root: root, nest: baseNesting}
}

// New creates the file-level cognitive analyzer.
func New(path string, root *syntax.Node) *scope.Analyzer[int] {
	return scope.NewFile(path, root, NewScorer)
}

// Score implements scope.Scorer.
func (s *Scorer) Score() int {
	return s.score
}

// Nesting returns the current nesting level.
func (s *Scorer) Nesting() int {
	return s.nest
}

// Analyze implements scope.Scorer.
func (s *Scorer) Analyze(n *syntax.Node, _ int, spawning bool) func() {
	switch {
	case isNestedBreak(n):
		s.score += s.nest

		return s.push()
	case n.Kind == syntax.KindElseClause, syntax.IsLabeledJump(n):
		s.score++
	case isLogicalRoot(n):
		s.score += LogicalRuns(n)
	case opensNesting(n) && n != s.root && !spawning && !isPropertyValue(n):
		return s.push()
	default:
	}

	return nil
}

func (s *Scorer) push() func() {
	s.nest++

	return func() {
		s.nest--
	}
}

// isNestedBreak reports constructs that score by nesting and nest their contents.
// An if continuing an else branch is scored through its else clause instead.
func isNestedBreak(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindIfStatement:
		return !syntax.IsElseIf(n)
	case syntax.KindTernaryExpression, syntax.KindSwitchStatement,
		syntax.KindCatchClause, syntax.KindConditionalType:
		return true
	default:
		return syntax.IsLoop(n.Kind)
	}
}

// opensNesting reports constructs that only increase nesting.
func opensNesting(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration,
		syntax.KindFunctionExpression, syntax.KindGeneratorFunction,
		syntax.KindArrowFunction, syntax.KindObject:
		return true
	default:
		return syntax.IsClassLike(n.Kind)
	}
}

// isPropertyValue reports functions assigned to an object literal property.
func isPropertyValue(n *syntax.Node) bool {
	if n.Kind != syntax.KindArrowFunction && !syntax.IsFunctionExpression(n.Kind) {
		return false
	}

	return n.Field == "value" && n.Parent != nil && n.Parent.Kind == syntax.KindPair
}

func isLogical(n *syntax.Node) bool {
	return n != nil && n.Kind == syntax.KindBinaryExpression && syntax.IsLogicalOperator(syntax.Operator(n))
}

// isLogicalRoot reports the outermost binary expression of a && / || chain.
func isLogicalRoot(n *syntax.Node) bool {
	return isLogical(n) && !isLogical(n.Parent)
}

// LogicalRuns scores a && / || chain: one for the first operator and one for
// every switch to the other operator, in source order.
func LogicalRuns(n *syntax.Node) int {
	ops := logicalOperators(n, nil)
	if len(ops) == 0 {
		return 0
	}

	runs := 1

	for i := 1; i < len(ops); i++ {
		if ops[i] != ops[i-1] {
			runs++
		}
	}

	return runs
}

func logicalOperators(n *syntax.Node, ops []string) []string {
	if !isLogical(n) {
		return ops
	}

	ops = logicalOperators(n.ChildByField("left"), ops)
	ops = append(ops, syntax.Operator(n))

	return logicalOperators(n.ChildByField("right"), ops)
}

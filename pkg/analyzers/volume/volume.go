// Package volume computes a Halstead-style semantic syntax volume per scope.
//
// Every meaningful node is either an operand (identifiers, literals, JSX text,
// template segments) keyed by its text, or semantic syntax keyed by its kind
// and distinguishing flags. The volume is N * log2(n), where N counts all
// occurrences and n the distinct keys.
package volume

import (
	"math"
	"strings"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Score is the volume of one scope.
type Score struct {
	Volume               float64 `json:"volume"                 yaml:"volume"`
	SemanticSyntaxTotal  int     `json:"semantic_syntax_total"  yaml:"semantic_syntax_total"`
	SemanticSyntaxUnique int     `json:"semantic_syntax_unique" yaml:"semantic_syntax_unique"`
	OperandsTotal        int     `json:"operands_total"         yaml:"operands_total"`
	OperandsUnique       int     `json:"operands_unique"        yaml:"operands_unique"`
	Lines                int     `json:"lines"                  yaml:"lines"`
}

// Options tunes what counts as an operand.
type Options struct {
	// PrivateIdentifiersAsOperands counts #name references as operands
	// rather than syntax.
	PrivateIdentifiersAsOperands bool
}

// DefaultOptions returns the default operand set.
func DefaultOptions() Options {
	return Options{PrivateIdentifiersAsOperands: true}
}

// Class is the role a node plays in the volume.
type Class uint8

// Node classes.
const (
	Ignored Class = iota
	Operand
	Syntax
)

// Scorer accumulates operand and syntax occurrences for one scope.
type Scorer struct {
	opts     Options
	syntax   map[string]int
	operands map[string]int
	lines    int
}

// NewScorerFactory returns a scope factory using opts.
func NewScorerFactory(opts Options) scope.Factory[Score] {
	return func(kind scope.Kind, root *syntax.Node) scope.Scorer[Score] {
		return NewScorer(opts, kind, root)
	}
}

// NewScorer creates a Scorer for the scope rooted at root.
func NewScorer(opts Options, kind scope.Kind, root *syntax.Node) *Scorer {
	lines := root.Lines()
	if kind == scope.KindFile {
		lines = root.SourceLines()
	}

	return &Scorer{
		opts:     opts,
		syntax:   make(map[string]int),
		operands: make(map[string]int),
		lines:    lines,
	}
}

// New creates the file-level volume analyzer.
func New(path string, root *syntax.Node, opts Options) *scope.Analyzer[Score] {
	return scope.NewFile(path, root, NewScorerFactory(opts))
}

// Analyze implements scope.Scorer.
func (s *Scorer) Analyze(n *syntax.Node, _ int, _ bool) func() {
	class, key := Classify(n, s.opts)

	switch class {
	case Operand:
		s.operands[key]++
	case Syntax:
		s.syntax[key]++
	case Ignored:
	}

	return nil
}

// Score implements scope.Scorer.
func (s *Scorer) Score() Score {
	score := Score{
		SemanticSyntaxUnique: len(s.syntax),
		OperandsUnique:       len(s.operands),
		Lines:                s.lines,
	}

	for _, count := range s.syntax {
		score.SemanticSyntaxTotal += count
	}

	for _, count := range s.operands {
		score.OperandsTotal += count
	}

	score.Volume = Volume(score.SemanticSyntaxTotal+score.OperandsTotal, score.SemanticSyntaxUnique+score.OperandsUnique)

	return score
}

// Volume returns total*log2(unique), or 0 when nothing was counted.
func Volume(total, unique int) float64 {
	if unique <= 0 || total <= 0 {
		return 0
	}

	return float64(total) * math.Log2(float64(unique))
}

// modifierTokens are keyword tokens that change the meaning of a declaration.
var modifierTokens = map[string]bool{
	"static":   true,
	"async":    true,
	"readonly": true,
	"abstract": true,
	"declare":  true,
	"override": true,
	"get":      true,
	"set":      true,
	"*":        true,
}

// Classify returns the role of n and the key it is counted under.
func Classify(n *syntax.Node, opts Options) (Class, string) {
	parent := n.Parent
	if parent != nil && (parent.Kind == syntax.KindString || parent.Kind == syntax.KindRegex) {
		return Ignored, ""
	}

	if !n.Named {
		return classifyToken(n)
	}

	switch n.Kind {
	case syntax.KindProgram, syntax.KindExpressionStatement, syntax.KindComment,
		syntax.KindHashBangLine, syntax.KindError:
		return Ignored, ""
	case syntax.KindPrivatePropertyIdentifier:
		if opts.PrivateIdentifiersAsOperands {
			return Operand, n.Text()
		}

		return Syntax, n.Type
	case syntax.KindJSXText:
		text := strings.TrimSpace(n.Text())
		if text == "" {
			return Ignored, ""
		}

		return Operand, text
	case syntax.KindStringFragment, syntax.KindEscapeSequence:
		if parent != nil && parent.Kind == syntax.KindTemplateString {
			return Operand, n.Text()
		}

		return Ignored, ""
	case syntax.KindLexicalDeclaration:
		if n.HasToken("const") {
			return Syntax, "const"
		}

		return Syntax, "let"
	case syntax.KindUpdateExpression:
		if syntax.IsPrefix(n) {
			return Syntax, "prefix" + syntax.Operator(n)
		}

		return Syntax, "postfix" + syntax.Operator(n)
	case syntax.KindUnaryExpression:
		return Syntax, "unary" + syntax.Operator(n)
	case syntax.KindSpreadElement, syntax.KindRestPattern:
		return Syntax, "spread"
	default:
	}

	if syntax.IsIdentifier(n.Kind) || syntax.IsLiteral(n.Kind) {
		return Operand, n.Text()
	}

	return Syntax, n.Type
}

func classifyToken(n *syntax.Node) (Class, string) {
	parent := n.Parent
	if parent == nil {
		return Ignored, ""
	}

	switch parent.Kind {
	case syntax.KindBinaryExpression, syntax.KindAugmentedAssignmentExpression:
		return Syntax, n.Type
	case syntax.KindUpdateExpression, syntax.KindUnaryExpression, syntax.KindLexicalDeclaration:
		return Ignored, ""
	case syntax.KindGeneratorFunctionDeclaration, syntax.KindGeneratorFunction,
		syntax.KindMethodDefinition, syntax.KindYieldExpression:
		if n.Type == "*" {
			return Ignored, ""
		}
	default:
	}

	if parent.Type == "assignment_expression" && n.Type == "=" {
		return Syntax, n.Type
	}

	if parent.Kind == syntax.KindExportStatement && n.Type == "default" {
		return Syntax, n.Type
	}

	if modifierTokens[n.Type] {
		return Syntax, n.Type
	}

	return Ignored, ""
}

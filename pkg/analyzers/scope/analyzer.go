package scope

import (
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/traverse"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Scorer accumulates one metric over the nodes of a scope.
type Scorer[T any] interface {
	// Analyze updates the score for n. spawning is true when n opens a child
	// scope of the owning analyzer. A non-nil result runs when n is left.
	Analyze(n *syntax.Node, depth int, spawning bool) func()
	// Score returns the accumulated value.
	Score() T
}

// Factory builds the scorer for a newly recognized scope rooted at root.
type Factory[T any] func(kind Kind, root *syntax.Node) Scorer[T]

// Analyzer tracks one scope: its name, kind, scorer and the child analyzers
// spawned for scopes nested directly inside it.
type Analyzer[T any] struct {
	name      string
	kind      Kind
	root      *syntax.Node
	recognize Recognizer
	scorer    Scorer[T]
	factory   Factory[T]
	children  []*Analyzer[T]
}

// NewFile creates the file-level analyzer for a program node.
func NewFile[T any](name string, root *syntax.Node, factory Factory[T]) *Analyzer[T] {
	return newAnalyzer(name, KindFile, root, factory)
}

func newAnalyzer[T any](name string, kind Kind, root *syntax.Node, factory Factory[T]) *Analyzer[T] {
	return &Analyzer[T]{
		name:      name,
		kind:      kind,
		root:      root,
		recognize: RecognizerFor(kind),
		scorer:    factory(kind, root),
		factory:   factory,
	}
}

// Name returns the scope name.
func (a *Analyzer[T]) Name() string { return a.name }

// Kind returns the scope kind.
func (a *Analyzer[T]) Kind() Kind { return a.kind }

// Root returns the node that introduced the scope.
func (a *Analyzer[T]) Root() *syntax.Node { return a.root }

// Visit implements traverse.Visitor.
func (a *Analyzer[T]) Visit(n *syntax.Node, depth int) traverse.Result {
	var res traverse.Result

	spawning := false

	if n != a.root && a.recognize != nil {
		if m, ok := a.recognize(a.root, n); ok {
			child := newAnalyzer(m.Name, m.Kind, n, a.factory)
			a.children = append(a.children, child)
			res.Spawn = []traverse.Visitor{child}
			spawning = true
		}
	}

	res.Leave = a.scorer.Analyze(n, depth, spawning)

	return res
}

// Metrics returns the metrics tree rooted at this scope.
func (a *Analyzer[T]) Metrics() *Tree[T] {
	tree := &Tree[T]{
		Name:      a.name,
		Scope:     a.kind,
		Score:     a.scorer.Score(),
		StartLine: a.root.StartLine,
		EndLine:   a.root.EndLine,
	}

	if len(a.children) > 0 {
		tree.Children = make([]*Tree[T], 0, len(a.children))

		for _, child := range a.children {
			tree.Children = append(tree.Children, child.Metrics())
		}
	}

	return tree
}

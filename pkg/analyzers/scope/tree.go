// Package scope provides the hierarchical analyzer shared by every metric:
// scope recognition, child analyzer spawning and metrics tree assembly.
package scope

import "fmt"

// Kind identifies what a metrics tree node represents.
type Kind string

// Scope kinds.
const (
	KindFile     Kind = "file"
	KindClass    Kind = "class"
	KindMethod   Kind = "method"
	KindFunction Kind = "function"
	KindObject   Kind = "object"
)

// Kinds lists every scope kind, outermost first.
var Kinds = []Kind{KindFile, KindClass, KindMethod, KindFunction, KindObject}

// ParseKind resolves a scope kind name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}

	return "", fmt.Errorf("unknown scope kind %q", name)
}

// IsAggregate reports scopes that contain other scopes by construction.
func (k Kind) IsAggregate() bool {
	return k == KindFile || k == KindClass
}

// Tree is the metrics tree of one analyzer. Children are the directly nested
// scopes in creation order.
type Tree[T any] struct {
	Name      string     `json:"name"               yaml:"name"`
	Scope     Kind       `json:"scope"              yaml:"scope"`
	Score     T          `json:"score"              yaml:"score"`
	StartLine int        `json:"start_line"         yaml:"start_line"`
	EndLine   int        `json:"end_line"           yaml:"end_line"`
	Children  []*Tree[T] `json:"children,omitempty" yaml:"children,omitempty"`
}

// Walk visits t and its descendants in pre-order.
func (t *Tree[T]) Walk(fn func(node *Tree[T], depth int)) {
	t.walk(fn, 0)
}

func (t *Tree[T]) walk(fn func(node *Tree[T], depth int), depth int) {
	if t == nil {
		return
	}

	fn(t, depth)

	for _, child := range t.Children {
		child.walk(fn, depth+1)
	}
}

// Find returns the first scope along the given name path below t, or nil.
func (t *Tree[T]) Find(names ...string) *Tree[T] {
	current := t

	for _, name := range names {
		var next *Tree[T]

		for _, child := range current.Children {
			if child.Name == name {
				next = child

				break
			}
		}

		if next == nil {
			return nil
		}

		current = next
	}

	return current
}

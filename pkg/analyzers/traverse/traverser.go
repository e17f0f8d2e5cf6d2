// Package traverse walks syntax trees once while letting any number of visitors
// observe every node and register further visitors scoped to a subtree.
package traverse

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// ErrDepthExceeded is returned when a configured depth ceiling is crossed.
var ErrDepthExceeded = errors.New("traverse: maximum depth exceeded")

// Visitor observes nodes during traversal.
type Visitor interface {
	Visit(n *syntax.Node, depth int) Result
}

// Result is what a visitor hands back for one node.
type Result struct {
	// Leave runs once every descendant of the node has been visited.
	Leave func()
	// Spawn lists visitors that join the traversal for the rest of the
	// node's subtree. Each is visited once on the node itself first.
	Spawn []Visitor
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(n *syntax.Node, depth int) Result

// Visit calls f(n, depth).
func (f VisitorFunc) Visit(n *syntax.Node, depth int) Result {
	return f(n, depth)
}

// Handle identifies a registered visitor.
type Handle struct {
	elem *list.Element
}

// Option configures a Traverser.
type Option func(*Traverser)

// WithMaxDepth caps the traversal depth. Zero disables the ceiling.
func WithMaxDepth(depth int) Option {
	return func(t *Traverser) {
		t.maxDepth = depth
	}
}

// Traverser manages the active visitor set for a depth-first walk.
type Traverser struct {
	active   *list.List
	maxDepth int
}

// New creates a Traverser.
func New(opts ...Option) *Traverser {
	t := &Traverser{active: list.New()}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Register appends a visitor to the active set.
func (t *Traverser) Register(v Visitor) Handle {
	return Handle{elem: t.active.PushBack(v)}
}

// Deregister removes a visitor. Removing an already removed handle is a no-op.
func (t *Traverser) Deregister(h Handle) {
	if h.elem == nil {
		return
	}

	t.active.Remove(h.elem)
}

// Len returns the number of active visitors.
func (t *Traverser) Len() int {
	return t.active.Len()
}

// Traverse walks the tree rooted at root, starting at depth 0.
func (t *Traverser) Traverse(root *syntax.Node) error {
	if root == nil {
		return nil
	}

	return t.walk(root, 0)
}

func (t *Traverser) walk(n *syntax.Node, depth int) error {
	if t.maxDepth > 0 && depth > t.maxDepth {
		return fmt.Errorf("%w: %d at line %d", ErrDepthExceeded, depth, n.StartLine)
	}

	var (
		leaves  []func()
		spawned []Handle
	)

	for _, v := range t.snapshot() {
		res := v.Visit(n, depth)
		if res.Leave != nil {
			leaves = append(leaves, res.Leave)
		}

		for _, child := range res.Spawn {
			child.Visit(n, depth)

			spawned = append(spawned, t.Register(child))
		}
	}

	for _, child := range ordered(n) {
		err := t.walk(child, depth+1)
		if err != nil {
			return err
		}
	}

	for _, leave := range leaves {
		leave()
	}

	for _, h := range spawned {
		t.Deregister(h)
	}

	return nil
}

// snapshot copies the active set so that visitors spawned at a node do not
// see that node a second time.
func (t *Traverser) snapshot() []Visitor {
	visitors := make([]Visitor, 0, t.active.Len())

	for e := t.active.Front(); e != nil; e = e.Next() {
		if v, ok := e.Value.(Visitor); ok {
			visitors = append(visitors, v)
		}
	}

	return visitors
}

// ordered returns the children of n in visiting order. JSX elements visit
// their opening tag, then their closing tag, then the content between.
func ordered(n *syntax.Node) []*syntax.Node {
	if n.Kind != syntax.KindJSXElement {
		return n.Children
	}

	open := n.ChildByField("open_tag")
	closing := n.ChildByField("close_tag")

	children := make([]*syntax.Node, 0, len(n.Children))

	if open != nil {
		children = append(children, open)
	}

	if closing != nil {
		children = append(children, closing)
	}

	for _, child := range n.Children {
		if child != open && child != closing {
			children = append(children, child)
		}
	}

	return children
}

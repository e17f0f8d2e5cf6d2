package syntax

import "strings"

// Node is an owned, immutable view of one tree-sitter node. Unlike the cgo
// handles it is built from, a Node stays valid after the parse tree is closed
// and carries an explicit Parent link.
type Node struct {
	// Type is the tree-sitter node type. For anonymous tokens it is the token text.
	Type string
	// Field is the grammar field name this node occupies under its parent, if any.
	Field string

	Parent   *Node
	Children []*Node

	source []byte

	StartByte int
	EndByte   int
	// StartLine and EndLine are 1-based.
	StartLine int
	EndLine   int

	Kind  Kind
	Named bool
}

// Text returns the source text spanned by the node.
func (n *Node) Text() string {
	if n == nil || n.EndByte > len(n.source) || n.StartByte > n.EndByte {
		return ""
	}

	return string(n.source[n.StartByte:n.EndByte])
}

// ChildByField returns the first child occupying the given grammar field, or nil.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}

	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}

	return nil
}

// FirstChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) FirstChildOfKind(kind Kind) *Node {
	if n == nil {
		return nil
	}

	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}

	return nil
}

// HasToken reports whether the node has a direct anonymous child with the given text.
func (n *Node) HasToken(text string) bool {
	if n == nil {
		return false
	}

	for _, child := range n.Children {
		if !child.Named && child.Type == text {
			return true
		}
	}

	return false
}

// NamedChildren returns the named direct children in source order.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}

	named := make([]*Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.Named {
			named = append(named, child)
		}
	}

	return named
}

// Ancestor walks up hops parents and returns the node reached, or nil when the
// chain is shorter.
func (n *Node) Ancestor(hops int) *Node {
	current := n

	for range hops {
		if current == nil {
			return nil
		}

		current = current.Parent
	}

	return current
}

// Lines returns the number of newline-delimited lines in the node's text.
func (n *Node) Lines() int {
	return strings.Count(n.Text(), "\n") + 1
}

// SourceLines returns the number of newline-delimited lines in the whole
// source the node was parsed from.
func (n *Node) SourceLines() int {
	if n == nil {
		return 0
	}

	return strings.Count(string(n.source), "\n") + 1
}

// Walk calls fn for the node and every descendant in pre-order. Returning false
// from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Tree is a parsed source file.
type Tree struct {
	Root     *Node
	Path     string
	Source   []byte
	Language Language
}

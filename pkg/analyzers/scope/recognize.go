package scope

import (
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Anonymous scope names.
const (
	NameIIFE      = "<iife>"
	NameAnonymous = "<anonymous>"
	NameConstruct = "constructor"
)

// Match describes a nested scope recognized at a node.
type Match struct {
	Name string
	Kind Kind
}

// Recognizer decides whether n opens a scope directly nested in the scope
// rooted at owner. A miss is a normal outcome.
type Recognizer func(owner, n *syntax.Node) (Match, bool)

// RecognizerFor returns the recognizer used by analyzers of the given kind.
func RecognizerFor(kind Kind) Recognizer {
	if kind == KindClass {
		return RecognizeMember
	}

	return RecognizeTopLevel
}

// RecognizeTopLevel matches declarations sitting directly in the body of owner:
//
//	function f() {}              function, one level below the body
//	const f = () => {}           function, three levels below (declaration, declarator, arrow)
//	const o = {}                 object, same shape as the arrow
//	(function () {})()           function, four levels below (statement, call, parens, function)
//	class C {}                   class, one level below
//	const C = class {}           class, same shape as the arrow
//
// export statements wrapping a declaration are skipped.
func RecognizeTopLevel(owner, n *syntax.Node) (Match, bool) {
	body := bodyOf(owner)
	if body == nil || n == nil {
		return Match{}, false
	}

	switch n.Kind {
	case syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration:
		if syntax.UnwrapExport(n) == body {
			return Match{Name: nameOf(n), Kind: KindFunction}, true
		}
	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration:
		if syntax.UnwrapExport(n) == body {
			return Match{Name: nameOf(n), Kind: KindClass}, true
		}
	case syntax.KindClass:
		if declarator := boundDeclarator(n, body); declarator != nil {
			return Match{Name: nameOf(declarator), Kind: KindClass}, true
		}
	case syntax.KindArrowFunction:
		if declarator := boundDeclarator(n, body); declarator != nil {
			return Match{Name: nameOf(declarator), Kind: KindFunction}, true
		}

		if iife(n, body) {
			return Match{Name: NameIIFE, Kind: KindFunction}, true
		}
	case syntax.KindFunctionExpression, syntax.KindGeneratorFunction:
		if iife(n, body) {
			name := NameIIFE
			if id := n.ChildByField("name"); id != nil {
				name = id.Text()
			}

			return Match{Name: name, Kind: KindFunction}, true
		}
	case syntax.KindObject:
		if declarator := boundDeclarator(n, body); declarator != nil {
			return Match{Name: nameOf(declarator), Kind: KindObject}, true
		}
	default:
	}

	return Match{}, false
}

// RecognizeMember matches methods, accessors and constructors whose class
// body belongs to owner. Members of nested classes belong to those classes.
func RecognizeMember(owner, n *syntax.Node) (Match, bool) {
	if n == nil || n.Kind != syntax.KindMethodDefinition {
		return Match{}, false
	}

	body := n.Parent
	if body == nil || body.Kind != syntax.KindClassBody || body.Parent != owner {
		return Match{}, false
	}

	return Match{Name: memberName(n), Kind: KindMethod}, true
}

// bodyOf returns the node whose direct children are the top-level statements
// of the scope rooted at owner.
func bodyOf(owner *syntax.Node) *syntax.Node {
	if owner == nil {
		return nil
	}

	switch owner.Kind {
	case syntax.KindProgram, syntax.KindObject:
		return owner
	case syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration,
		syntax.KindFunctionExpression, syntax.KindGeneratorFunction,
		syntax.KindArrowFunction, syntax.KindMethodDefinition:
		body := owner.ChildByField("body")
		if body != nil && body.Kind == syntax.KindStatementBlock {
			return body
		}

		return nil
	default:
		return nil
	}
}

// boundDeclarator returns the declarator when n is the value of a let, const
// or var declaration placed directly in body.
func boundDeclarator(n, body *syntax.Node) *syntax.Node {
	if n.Field != "value" {
		return nil
	}

	declarator := n.Parent
	if declarator == nil || declarator.Kind != syntax.KindVariableDeclarator {
		return nil
	}

	declaration := declarator.Parent
	if declaration == nil || !syntax.IsVariableDeclaration(declaration.Kind) {
		return nil
	}

	if syntax.UnwrapExport(declaration) != body {
		return nil
	}

	return declarator
}

// iife reports `(function () {})()` shaped calls in statement position.
func iife(n, body *syntax.Node) bool {
	parens := n.Parent
	if parens == nil || parens.Kind != syntax.KindParenthesizedExpression {
		return false
	}

	call := parens.Parent
	if call == nil || call.Kind != syntax.KindCallExpression || parens.Field != "function" {
		return false
	}

	statement := call.Parent

	return statement != nil && statement.Kind == syntax.KindExpressionStatement && statement.Parent == body
}

func nameOf(n *syntax.Node) string {
	if id := n.ChildByField("name"); id != nil {
		if text := id.Text(); text != "" {
			return text
		}
	}

	return NameAnonymous
}

func memberName(n *syntax.Node) string {
	name := nameOf(n)

	switch {
	case name == NameConstruct:
		return NameConstruct
	case n.HasToken("get"):
		return "get " + name
	case n.HasToken("set"):
		return "set " + name
	default:
		return name
	}
}

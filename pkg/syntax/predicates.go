package syntax

// IsLoop reports for, for-in/for-of, while and do-while statements.
func IsLoop(kind Kind) bool {
	switch kind {
	case KindForStatement, KindForInStatement, KindWhileStatement, KindDoStatement:
		return true
	default:
		return false
	}
}

// IsFunctionLike reports declarations and expressions that introduce a function body.
func IsFunctionLike(kind Kind) bool {
	switch kind {
	case KindFunctionDeclaration, KindGeneratorFunctionDeclaration,
		KindFunctionExpression, KindGeneratorFunction, KindArrowFunction,
		KindMethodDefinition:
		return true
	default:
		return false
	}
}

// IsFunctionDeclaration reports named function declarations, including generators.
func IsFunctionDeclaration(kind Kind) bool {
	return kind == KindFunctionDeclaration || kind == KindGeneratorFunctionDeclaration
}

// IsFunctionExpression reports anonymous or named function expressions, including generators.
func IsFunctionExpression(kind Kind) bool {
	return kind == KindFunctionExpression || kind == KindGeneratorFunction
}

// IsClassDeclaration reports class declarations, including abstract classes.
func IsClassDeclaration(kind Kind) bool {
	return kind == KindClassDeclaration || kind == KindAbstractClassDeclaration
}

// IsClassLike reports class declarations and class expressions.
func IsClassLike(kind Kind) bool {
	return IsClassDeclaration(kind) || kind == KindClass
}

// IsVariableDeclaration reports let/const and var declaration statements.
func IsVariableDeclaration(kind Kind) bool {
	return kind == KindLexicalDeclaration || kind == KindVariableDeclaration
}

// IsLiteral reports literal operands.
func IsLiteral(kind Kind) bool {
	switch kind {
	case KindString, KindNumber, KindRegex, KindTrue, KindFalse:
		return true
	default:
		return false
	}
}

// IsIdentifier reports identifier-like leaves, excluding private names.
func IsIdentifier(kind Kind) bool {
	switch kind {
	case KindIdentifier, KindPropertyIdentifier, KindShorthandPropertyIdentifier,
		KindShorthandPropertyIdentifierPattern, KindTypeIdentifier,
		KindStatementIdentifier, KindUndefined:
		return true
	default:
		return false
	}
}

// IsJSXPart reports the JSX element triad.
func IsJSXPart(kind Kind) bool {
	switch kind {
	case KindJSXElement, KindJSXOpeningElement, KindJSXClosingElement:
		return true
	default:
		return false
	}
}

// IsElseIf reports an if statement that continues an else branch.
func IsElseIf(n *Node) bool {
	return n != nil && n.Kind == KindIfStatement && n.Parent != nil && n.Parent.Kind == KindElseClause
}

// IsLabeledJump reports break/continue statements carrying a label.
func IsLabeledJump(n *Node) bool {
	if n == nil || (n.Kind != KindBreakStatement && n.Kind != KindContinueStatement) {
		return false
	}

	return n.FirstChildOfKind(KindStatementIdentifier) != nil
}

// Operator returns the operator token text of binary, augmented assignment,
// unary and update expressions, or "" for other nodes.
func Operator(n *Node) string {
	if n == nil || !hasOperator(n.Kind) {
		return ""
	}

	if op := n.ChildByField("operator"); op != nil {
		return op.Type
	}

	for _, child := range n.Children {
		if !child.Named {
			return child.Type
		}
	}

	return ""
}

func hasOperator(kind Kind) bool {
	switch kind {
	case KindBinaryExpression, KindAugmentedAssignmentExpression,
		KindUnaryExpression, KindUpdateExpression:
		return true
	default:
		return false
	}
}

// IsLogicalOperator reports the short-circuit boolean operators counted as runs.
func IsLogicalOperator(op string) bool {
	return op == "&&" || op == "||"
}

// IsPrefix reports whether an update or unary expression has its operator first.
func IsPrefix(n *Node) bool {
	if n == nil || len(n.Children) == 0 {
		return false
	}

	first := n.Children[0]

	return !first.Named && first.Type == Operator(n)
}

// UnwrapExport returns the parent of n, skipping export_statement wrappers.
func UnwrapExport(n *Node) *Node {
	if n == nil {
		return nil
	}

	parent := n.Parent
	for parent != nil && parent.Kind == KindExportStatement {
		parent = parent.Parent
	}

	return parent
}

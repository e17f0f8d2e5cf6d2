package syntax

// Kind is the closed set of node kinds the analyzers recognize.
// Named tree-sitter nodes outside this set map to KindOther and anonymous
// tokens (keywords, operators, punctuation) map to KindToken.
type Kind uint8

// Node kinds.
const (
	KindOther Kind = iota
	KindToken
	KindError

	KindProgram
	KindExpressionStatement
	KindComment
	KindHashBangLine
	KindStatementBlock
	KindExportStatement

	KindLexicalDeclaration
	KindVariableDeclaration
	KindVariableDeclarator

	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindFunctionExpression
	KindGeneratorFunction
	KindArrowFunction

	KindClassDeclaration
	KindAbstractClassDeclaration
	KindClass
	KindClassBody
	KindMethodDefinition

	KindObject
	KindPair

	KindParenthesizedExpression
	KindCallExpression

	KindIfStatement
	KindElseClause
	KindSwitchStatement
	KindSwitchCase
	KindSwitchDefault
	KindForStatement
	KindForInStatement
	KindWhileStatement
	KindDoStatement
	KindTryStatement
	KindCatchClause
	KindFinallyClause
	KindBreakStatement
	KindContinueStatement
	KindStatementIdentifier

	KindTernaryExpression
	KindBinaryExpression
	KindAugmentedAssignmentExpression
	KindUnaryExpression
	KindUpdateExpression
	KindOptionalChain
	KindConditionalType
	KindSpreadElement
	KindRestPattern
	KindYieldExpression

	KindIdentifier
	KindPropertyIdentifier
	KindPrivatePropertyIdentifier
	KindShorthandPropertyIdentifier
	KindShorthandPropertyIdentifierPattern
	KindTypeIdentifier
	KindUndefined

	KindString
	KindStringFragment
	KindEscapeSequence
	KindTemplateString
	KindTemplateSubstitution
	KindNumber
	KindRegex
	KindTrue
	KindFalse

	KindJSXElement
	KindJSXOpeningElement
	KindJSXClosingElement
	KindJSXSelfClosingElement
	KindJSXText
)

// kindByType maps named tree-sitter node types to kinds. Both JavaScript and
// TypeScript grammars share these names; older grammar releases call function
// expressions "function".
var kindByType = map[string]Kind{
	"ERROR": KindError,

	"program":              KindProgram,
	"expression_statement": KindExpressionStatement,
	"comment":              KindComment,
	"html_comment":         KindComment,
	"hash_bang_line":       KindHashBangLine,
	"statement_block":      KindStatementBlock,
	"export_statement":     KindExportStatement,

	"lexical_declaration":  KindLexicalDeclaration,
	"variable_declaration": KindVariableDeclaration,
	"variable_declarator":  KindVariableDeclarator,

	"function_declaration":           KindFunctionDeclaration,
	"generator_function_declaration": KindGeneratorFunctionDeclaration,
	"function_expression":            KindFunctionExpression,
	"function":                       KindFunctionExpression,
	"generator_function":             KindGeneratorFunction,
	"arrow_function":                 KindArrowFunction,

	"class_declaration":          KindClassDeclaration,
	"abstract_class_declaration": KindAbstractClassDeclaration,
	"class":                      KindClass,
	"class_body":                 KindClassBody,
	"method_definition":          KindMethodDefinition,

	"object": KindObject,
	"pair":   KindPair,

	"parenthesized_expression": KindParenthesizedExpression,
	"call_expression":          KindCallExpression,

	"if_statement":         KindIfStatement,
	"else_clause":          KindElseClause,
	"switch_statement":     KindSwitchStatement,
	"switch_case":          KindSwitchCase,
	"switch_default":       KindSwitchDefault,
	"for_statement":        KindForStatement,
	"for_in_statement":     KindForInStatement,
	"while_statement":      KindWhileStatement,
	"do_statement":         KindDoStatement,
	"try_statement":        KindTryStatement,
	"catch_clause":         KindCatchClause,
	"finally_clause":       KindFinallyClause,
	"break_statement":      KindBreakStatement,
	"continue_statement":   KindContinueStatement,
	"statement_identifier": KindStatementIdentifier,

	"ternary_expression":              KindTernaryExpression,
	"binary_expression":               KindBinaryExpression,
	"augmented_assignment_expression": KindAugmentedAssignmentExpression,
	"unary_expression":                KindUnaryExpression,
	"update_expression":               KindUpdateExpression,
	"optional_chain":                  KindOptionalChain,
	"conditional_type":                KindConditionalType,
	"spread_element":                  KindSpreadElement,
	"rest_pattern":                    KindRestPattern,
	"yield_expression":                KindYieldExpression,

	"identifier":                            KindIdentifier,
	"property_identifier":                   KindPropertyIdentifier,
	"private_property_identifier":           KindPrivatePropertyIdentifier,
	"shorthand_property_identifier":         KindShorthandPropertyIdentifier,
	"shorthand_property_identifier_pattern": KindShorthandPropertyIdentifierPattern,
	"type_identifier":                       KindTypeIdentifier,
	"undefined":                             KindUndefined,

	"string":                KindString,
	"string_fragment":       KindStringFragment,
	"escape_sequence":       KindEscapeSequence,
	"template_string":       KindTemplateString,
	"template_substitution": KindTemplateSubstitution,
	"number":                KindNumber,
	"regex":                 KindRegex,
	"true":                  KindTrue,
	"false":                 KindFalse,

	"jsx_element":              KindJSXElement,
	"jsx_opening_element":      KindJSXOpeningElement,
	"jsx_closing_element":      KindJSXClosingElement,
	"jsx_self_closing_element": KindJSXSelfClosingElement,
	"jsx_text":                 KindJSXText,
}

// KindOf resolves the kind of a tree-sitter node from its type and namedness.
func KindOf(nodeType string, named bool) Kind {
	if !named {
		return KindToken
	}

	if kind, ok := kindByType[nodeType]; ok {
		return kind
	}

	return KindOther
}

// fieldsByType lists the grammar fields resolved during conversion, per node type.
// Only fields read by the analyzers are resolved to keep conversion cheap.
var fieldsByType = map[string][]string{
	"variable_declarator":             {"name", "value"},
	"function_declaration":            {"name", "body"},
	"generator_function_declaration":  {"name", "body"},
	"function_expression":             {"name", "body"},
	"function":                        {"name", "body"},
	"generator_function":              {"name", "body"},
	"arrow_function":                  {"body"},
	"class_declaration":               {"name", "body"},
	"abstract_class_declaration":      {"name", "body"},
	"class":                           {"name", "body"},
	"method_definition":               {"name", "body"},
	"pair":                            {"key", "value"},
	"call_expression":                 {"function"},
	"if_statement":                    {"condition", "consequence", "alternative"},
	"try_statement":                   {"body", "handler", "finalizer"},
	"binary_expression":               {"left", "operator", "right"},
	"augmented_assignment_expression": {"left", "operator", "right"},
	"unary_expression":                {"operator", "argument"},
	"update_expression":               {"operator", "argument"},
	"break_statement":                 {"label"},
	"continue_statement":              {"label"},
	"jsx_element":                     {"open_tag", "close_tag"},
}

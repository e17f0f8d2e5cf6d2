// Package syntax turns TypeScript, TSX and JavaScript sources into owned syntax
// trees built from tree-sitter parses.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/safeconv"
)

// Sentinel errors.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoRootNode          = errors.New("syntax: no root node")
	errPoolType            = errors.New("syntax: unexpected parser pool type")
)

// Parser parses source files into Trees. It is safe for concurrent use;
// tree-sitter parsers are pooled per language.
type Parser struct {
	pools map[Language]*sync.Pool
	mu    sync.Mutex
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{pools: make(map[Language]*sync.Pool, len(languageFuncs))}
}

// Parse detects the language of path and parses content.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	lang := DetectLanguage(path, content)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}

	return p.ParseLanguage(ctx, lang, path, content)
}

// ParseLanguage parses content with the given grammar.
func (p *Parser) ParseLanguage(ctx context.Context, lang Language, path string, content []byte) (*Tree, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	pool, err := p.pool(lang)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, ErrNoRootNode
	}

	return &Tree{
		Root:     convert(root, nil, "", content),
		Path:     path,
		Source:   content,
		Language: lang,
	}, nil
}

func (p *Parser) pool(lang Language) (*sync.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[lang]; ok {
		return pool, nil
	}

	tsLang := grammar(lang)
	if tsLang == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(tsLang)

			return tsParser
		},
	}
	p.pools[lang] = pool

	return pool, nil
}

// fieldSpan identifies the child a grammar field points at.
type fieldSpan struct {
	name     string
	nodeType string
	start    uint
	end      uint
}

func convert(ts sitter.Node, parent *Node, field string, src []byte) *Node {
	named := ts.IsNamed()
	nodeType := ts.Type()
	start := ts.StartPoint()
	end := ts.EndPoint()

	n := &Node{
		Type:      nodeType,
		Kind:      KindOf(nodeType, named),
		Named:     named,
		Field:     field,
		Parent:    parent,
		source:    src,
		StartByte: safeconv.MustUintToInt(ts.StartByte()),
		EndByte:   safeconv.MustUintToInt(ts.EndByte()),
		StartLine: safeconv.MustUintToInt(start.Row) + 1,
		EndLine:   safeconv.MustUintToInt(end.Row) + 1,
	}

	childCount := ts.ChildCount()
	if childCount == 0 {
		return n
	}

	spans := resolveFields(ts, nodeType)
	n.Children = make([]*Node, 0, childCount)

	for idx := range childCount {
		child := ts.Child(idx)
		if child.IsNull() {
			continue
		}

		n.Children = append(n.Children, convert(child, n, fieldOf(spans, child), src))
	}

	return n
}

func resolveFields(ts sitter.Node, nodeType string) []fieldSpan {
	names := fieldsByType[nodeType]
	if len(names) == 0 {
		return nil
	}

	spans := make([]fieldSpan, 0, len(names))

	for _, name := range names {
		fieldNode := ts.ChildByFieldName(name)
		if fieldNode.IsNull() {
			continue
		}

		spans = append(spans, fieldSpan{
			name:     name,
			nodeType: fieldNode.Type(),
			start:    fieldNode.StartByte(),
			end:      fieldNode.EndByte(),
		})
	}

	return spans
}

func fieldOf(spans []fieldSpan, child sitter.Node) string {
	if len(spans) == 0 {
		return ""
	}

	start, end, nodeType := child.StartByte(), child.EndByte(), child.Type()

	for _, span := range spans {
		if span.start == start && span.end == end && span.nodeType == nodeType {
			return span.name
		}
	}

	return ""
}

package lsp //nolint:testpackage // handlers are unexported.

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

const docURI = "file:///work/src/app.ts"

const sample = `function ok() {
  return 1;
}

function tangled(a, b, c) {
  if (a) {
    for (const x of b) {
      if (x && c || !x) {
        while (c) { c--; }
      }
    }
  }
}
`

// strictOptions flags every function so diagnostics are deterministic.
func strictOptions() analyze.Options {
	opts := analyze.DefaultOptions()
	opts.Maintainability.Unit = maintainability.Thresholds{Alert: 101, Critical: 0}
	opts.Maintainability.Aggregate = maintainability.Thresholds{Alert: 0, Critical: 0}

	return opts
}

type recorder struct {
	mu    sync.Mutex
	calls []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method != methodDiagnostic {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
			r.calls = append(r.calls, p)
		}
	}}
}

func (r *recorder) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	require.NotEmpty(t, r.calls)

	return r.calls[len(r.calls)-1]
}

func open(t *testing.T, srv *Server, rec *recorder, text string) {
	t.Helper()

	require.NoError(t, srv.didOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: docURI, LanguageID: "typescript", Text: text},
	}))
}

func TestDidOpen_PublishesDiagnostics(t *testing.T) {
	t.Parallel()

	srv := NewServer(analyze.NewFileAnalyzer(strictOptions(), nil), nil)
	rec := &recorder{}

	open(t, srv, rec, sample)

	params := rec.last(t)
	assert.Equal(t, docURI, params.URI)
	require.Len(t, params.Diagnostics, 2)

	first := params.Diagnostics[0]
	assert.Equal(t, protocol.UInteger(0), first.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(len("function ok() {")), first.Range.End.Character)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *first.Severity)
	assert.Equal(t, "tsmetrics", *first.Source)
	assert.True(t, strings.HasPrefix(first.Message, "function ok has a maintainability index of"), first.Message)

	second := params.Diagnostics[1]
	assert.Equal(t, protocol.UInteger(4), second.Range.Start.Line)
	assert.Contains(t, second.Message, "function tangled")

	doc, ok := srv.store.Get(docURI)
	require.True(t, ok)
	assert.Equal(t, syntax.LanguageTypeScript, doc.Language)
	require.NotNil(t, doc.Metrics)
	assert.Equal(t, "/work/src/app.ts", doc.Metrics.FilePath)
}

func TestDidOpen_DefaultThresholds(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, nil)
	rec := &recorder{}

	open(t, srv, rec, "const a = 1;\n")

	assert.Empty(t, rec.last(t).Diagnostics)
}

func TestDidChange_Reanalyzes(t *testing.T) {
	t.Parallel()

	srv := NewServer(analyze.NewFileAnalyzer(strictOptions(), nil), nil)
	rec := &recorder{}

	open(t, srv, rec, sample)

	require.NoError(t, srv.didChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "function only() {}\n"}},
	}))

	diagnostics := rec.last(t).Diagnostics
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "function only")

	doc, ok := srv.store.Get(docURI)
	require.True(t, ok)
	assert.Equal(t, "function only() {}\n", doc.Text)
}

func TestDidClose_ClearsDiagnostics(t *testing.T) {
	t.Parallel()

	srv := NewServer(analyze.NewFileAnalyzer(strictOptions(), nil), nil)
	rec := &recorder{}

	open(t, srv, rec, sample)

	require.NoError(t, srv.didClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	}))

	assert.Empty(t, rec.last(t).Diagnostics)

	_, ok := srv.store.Get(docURI)
	assert.False(t, ok)
}

func TestUnsupportedDocument(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, nil)
	rec := &recorder{}

	require.NoError(t, srv.didOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///a/readme.md", LanguageID: "markdown", Text: "# hi"},
	}))

	assert.Empty(t, rec.last(t).Diagnostics)

	hover, err := srv.hover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a/readme.md"},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestHover_InnermostScope(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, nil)
	open(t, srv, &recorder{}, sample)

	hoverAt := func(line uint32) *protocol.Hover {
		hover, err := srv.hover(nil, &protocol.HoverParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
				Position:     protocol.Position{Line: line, Character: 2},
			},
		})
		require.NoError(t, err)

		return hover
	}

	hover := hoverAt(7)
	require.NotNil(t, hover)

	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	assert.Contains(t, content.Value, "**function** `tangled`")
	assert.Contains(t, content.Value, "| Cyclomatic |")
	assert.Equal(t, protocol.UInteger(4), hover.Range.Start.Line)

	hover = hoverAt(3)
	require.NotNil(t, hover)

	content, ok = hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "**file** `app.ts`")
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, nil)

	result, err := srv.initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "tsmetrics", res.ServerInfo.Name)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, res.Capabilities.TextDocumentSync)
	assert.NotNil(t, res.Capabilities.HoverProvider)
}

func TestLanguageOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, syntax.LanguageTSX, languageOf("typescriptreact", "file:///a.txt"))
	assert.Equal(t, syntax.LanguageJavaScript, languageOf("javascriptreact", ""))
	assert.Equal(t, syntax.LanguageJavaScript, languageOf("", "file:///x/y.mjs"))
	assert.Equal(t, syntax.LanguageUnknown, languageOf("", "file:///x/y.go"))
	assert.Equal(t, "/x/y.ts", pathOf("file:///x/y.ts"))
	assert.Equal(t, "untitled-1", pathOf("untitled-1"))
}

func TestFullText(t *testing.T) {
	t.Parallel()

	text, ok := fullText([]any{
		map[string]any{"text": "first"},
		&protocol.TextDocumentContentChangeEventWhole{Text: "second"},
	})
	require.True(t, ok)
	assert.Equal(t, "second", text)

	_, ok = fullText(nil)
	assert.False(t, ok)
}

func TestInnermost_OutsideRoot(t *testing.T) {
	t.Parallel()

	combined, err := analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil).
		AnalyzeSource(context.Background(), "a.ts", []byte("let a = 1;\n"))
	require.NoError(t, err)

	assert.Nil(t, Innermost(combined, 99))
	assert.Nil(t, HoverAt(combined, 0))
	assert.Same(t, combined, Innermost(combined, 1))
}

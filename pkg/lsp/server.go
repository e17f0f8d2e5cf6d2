// Package lsp provides a Language Server Protocol server that reports
// maintainability problems of TypeScript and JavaScript documents as
// diagnostics and shows scope metrics on hover.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/version"
)

const (
	serverName       = "tsmetrics"
	diagnosticSource = "tsmetrics"
	methodDiagnostic = "textDocument/publishDiagnostics"
)

// Server implements the tsmetrics language server.
type Server struct {
	store    *DocumentStore
	analyzer *analyze.FileAnalyzer
	logger   *slog.Logger
	handler  protocol.Handler
}

// NewServer creates a language server. A nil analyzer uses the default
// options; a nil logger discards.
func NewServer(analyzer *analyze.FileAnalyzer, logger *slog.Logger) *Server {
	if analyzer == nil {
		analyzer = analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	srv := &Server{store: NewDocumentStore(), analyzer: analyzer, logger: logger}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
		TextDocumentHover:     srv.hover,
	}

	return srv
}

// Run serves on stdio until the client disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull

	ver := version.Get().Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &ver,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := &Document{
		URI:      params.TextDocument.URI,
		Text:     params.TextDocument.Text,
		Language: languageOf(params.TextDocument.LanguageID, params.TextDocument.URI),
	}

	srv.update(ctx, doc)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	prev, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		prev = &Document{URI: params.TextDocument.URI, Language: languageOf("", params.TextDocument.URI)}
	}

	text, found := fullText(params.ContentChanges)
	if !found {
		return nil
	}

	srv.update(ctx, &Document{URI: prev.URI, Text: text, Language: prev.Language})

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil
	}

	if params.Text != nil {
		doc = &Document{URI: doc.URI, Text: *params.Text, Language: doc.Language}
	}

	srv.update(ctx, doc)

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.Delete(params.TextDocument.URI)
	notify(ctx, params.TextDocument.URI, []protocol.Diagnostic{})

	return nil
}

func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok || doc.Metrics == nil {
		return nil, nil //nolint:nilnil // LSP expects a null hover when nothing is known.
	}

	return HoverAt(doc.Metrics, int(params.Position.Line)+1), nil
}

// update analyzes doc, stores it and publishes its diagnostics.
func (srv *Server) update(ctx *glsp.Context, doc *Document) {
	doc.Metrics = srv.analyze(doc)
	srv.store.Set(doc)

	notify(ctx, doc.URI, Diagnostics(doc.Metrics, doc.Text))
}

func (srv *Server) analyze(doc *Document) *maintainability.Combined {
	if doc.Language == syntax.LanguageUnknown {
		return nil
	}

	combined, err := srv.analyzer.AnalyzeSourceAs(context.Background(), doc.Language, pathOf(doc.URI), []byte(doc.Text))
	if err != nil {
		srv.logger.Warn("analysis failed", "uri", doc.URI, "error", err)

		return nil
	}

	return combined
}

func notify(ctx *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}

	ctx.Notify(methodDiagnostic, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// fullText returns the text of the last whole-document change.
func fullText(changes []any) (string, bool) {
	for i := len(changes) - 1; i >= 0; i-- {
		switch change := changes[i].(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			return change.Text, true
		case *protocol.TextDocumentContentChangeEventWhole:
			return change.Text, true
		case map[string]any:
			if text, ok := change["text"].(string); ok {
				return text, true
			}
		}
	}

	return "", false
}

// languageOf maps an LSP language identifier, falling back to the file
// extension of uri.
func languageOf(languageID, uri string) syntax.Language {
	switch languageID {
	case "typescript":
		return syntax.LanguageTypeScript
	case "typescriptreact":
		return syntax.LanguageTSX
	case "javascript", "javascriptreact":
		return syntax.LanguageJavaScript
	}

	return syntax.DetectLanguage(pathOf(uri), nil)
}

func pathOf(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme == "" {
		return uri
	}

	if parsed.Path != "" {
		return parsed.Path
	}

	return strings.TrimPrefix(parsed.Opaque, "//")
}

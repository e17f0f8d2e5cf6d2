// Package analyze runs the metric analyzers over source files and folders.
package analyze

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/cognitive"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/cyclomatic"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/traverse"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/volume"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Options configures a FileAnalyzer.
type Options struct {
	Volume          volume.Options
	Maintainability maintainability.Options

	// MaxDepth caps the syntax tree depth. Zero means unlimited.
	MaxDepth int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Volume:          volume.DefaultOptions(),
		Maintainability: maintainability.DefaultOptions(),
	}
}

// FileAnalyzer computes the combined metrics tree of single files. It is safe
// for concurrent use; every call builds fresh analyzers.
type FileAnalyzer struct {
	parser *syntax.Parser
	tracer trace.Tracer
	opts   Options
}

// NewFileAnalyzer creates a FileAnalyzer. A nil tracer disables spans.
func NewFileAnalyzer(opts Options, tracer trace.Tracer) *FileAnalyzer {
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &FileAnalyzer{
		parser: syntax.NewParser(),
		tracer: tracer,
		opts:   opts,
	}
}

// Options returns the analyzer options.
func (a *FileAnalyzer) Options() Options {
	return a.opts
}

// AnalyzeSource parses content, detecting the language from path, and
// analyzes it.
func (a *FileAnalyzer) AnalyzeSource(ctx context.Context, path string, content []byte) (*maintainability.Combined, error) {
	return a.analyze(ctx, path, func(ctx context.Context) (*syntax.Tree, error) {
		return a.parser.Parse(ctx, path, content)
	})
}

// AnalyzeSourceAs parses content with an explicit language and analyzes it.
func (a *FileAnalyzer) AnalyzeSourceAs(
	ctx context.Context,
	lang syntax.Language,
	path string,
	content []byte,
) (*maintainability.Combined, error) {
	return a.analyze(ctx, path, func(ctx context.Context) (*syntax.Tree, error) {
		return a.parser.ParseLanguage(ctx, lang, path, content)
	})
}

func (a *FileAnalyzer) analyze(
	ctx context.Context,
	path string,
	parse func(ctx context.Context) (*syntax.Tree, error),
) (*maintainability.Combined, error) {
	parseCtx, span := a.tracer.Start(ctx, observability.SpanParseFile,
		trace.WithAttributes(attribute.String("file.path", path)))

	tree, err := parse(parseCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		span.End()

		return nil, err
	}

	span.SetAttributes(attribute.String("file.language", string(tree.Language)))
	span.End()

	_, span = a.tracer.Start(ctx, observability.SpanWalkFile,
		trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	combined, err := a.AnalyzeTree(tree)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")

		return nil, err
	}

	return combined, nil
}

// AnalyzeTree runs the cyclomatic, cognitive and volume analyzers over tree
// in one traversal and combines their results.
func (a *FileAnalyzer) AnalyzeTree(tree *syntax.Tree) (*maintainability.Combined, error) {
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("analyze: %w", syntax.ErrNoRootNode)
	}

	cyc := cyclomatic.New(tree.Path, tree.Root)
	cog := cognitive.New(tree.Path, tree.Root)
	vol := volume.New(tree.Path, tree.Root, a.opts.Volume)

	walker := traverse.New(traverse.WithMaxDepth(a.opts.MaxDepth))
	walker.Register(cyc)
	walker.Register(cog)
	walker.Register(vol)

	err := walker.Traverse(tree.Root)
	if err != nil {
		return nil, fmt.Errorf("traverse %s: %w", tree.Path, err)
	}

	combined, err := maintainability.Combine(tree.Path, cyc.Metrics(), cog.Metrics(), vol.Metrics(), a.opts.Maintainability)
	if err != nil {
		return nil, fmt.Errorf("combine %s: %w", tree.Path, err)
	}

	return combined, nil
}

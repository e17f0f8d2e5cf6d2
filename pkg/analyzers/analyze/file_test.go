package analyze_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/scope"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/traverse"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

const siblings = "function x() { if(z) {} } function y() { if(z) {} if(z) {} }"

func TestFileAnalyzer_CombinesAllMetrics(t *testing.T) {
	t.Parallel()

	analyzer := analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil)

	combined, err := analyzer.AnalyzeSource(context.Background(), "a.ts", []byte(siblings))
	require.NoError(t, err)

	assert.Equal(t, "a.ts", combined.Name)
	assert.Equal(t, scope.KindFile, combined.Scope)
	assert.Equal(t, 4, combined.Cyclomatic)
	assert.Equal(t, 3, combined.Cognitive)
	assert.Positive(t, combined.SemanticVolume.Volume)

	require.Len(t, combined.Children, 2)

	x, y := combined.Children[0], combined.Children[1]
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, scope.KindFunction, x.Scope)
	assert.Equal(t, 2, x.Cyclomatic)
	assert.Equal(t, 1, x.Cognitive)
	assert.Equal(t, "y", y.Name)
	assert.Equal(t, 3, y.Cyclomatic)
	assert.Equal(t, 2, y.Cognitive)

	combined.Walk(func(node *maintainability.Combined, _ int) {
		assert.Equal(t, "a.ts", node.FilePath)
		assert.LessOrEqual(t, node.MaintainabilityIndex, 100.0)
		assert.NotEmpty(t, node.Severity)
	})
}

const (
	accountSource = `class Account {
  #total = 0;
  constructor() {}
  get total() { return this.#total; }
  set total(v) { if (v >= 0) { this.#total = v; } }
  #bump() { this.#total++; }
}
`
	nestedSource = `class Outer {
  make() {
    class Inner {
      hidden() { return 1; }
    }
    return new Inner();
  }
}
`
	iifeSource = `(function () { setup(); })();
(() => { run(); })();
`
	boundSource = `const add = (a, b) => a + b;
const settings = { retries: 3 };
const Local = class {
  x() {}
};
`
)

// outline lists every scope of a combined tree as "depth kind name".
func outline(root *maintainability.Combined) []string {
	var out []string

	root.Walk(func(node *maintainability.Combined, depth int) {
		out = append(out, fmt.Sprintf("%d %s %s", depth, node.Scope, node.Name))
	})

	return out
}

func TestFileAnalyzer_AlignsEveryScopeShape(t *testing.T) {
	t.Parallel()

	account := []string{
		"1 class Account",
		"2 method constructor",
		"2 method get total",
		"2 method set total",
		"2 method #bump",
	}
	nested := []string{
		"1 class Outer",
		"2 method make",
		"3 class Inner",
		"4 method hidden",
	}
	iifes := []string{
		"1 function <iife>",
		"1 function <iife>",
	}
	bound := []string{
		"1 function add",
		"1 object settings",
		"1 class Local",
		"2 method x",
	}

	concat := func(parts ...[]string) []string {
		out := []string{"0 file a.ts"}
		for _, p := range parts {
			out = append(out, p...)
		}

		return out
	}

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{name: "file only", src: "let a = 1;", want: concat()},
		{name: "accessors and private members", src: accountSource, want: concat(account)},
		{name: "class nested in method", src: nestedSource, want: concat(nested)},
		{name: "iife", src: iifeSource, want: concat(iifes)},
		{name: "bound values", src: boundSource, want: concat(bound)},
		{
			name: "mixed",
			src:  accountSource + nestedSource + iifeSource + boundSource,
			want: concat(account, nested, iifes, bound),
		},
	}

	analyzer := analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			combined, err := analyzer.AnalyzeSource(context.Background(), "a.ts", []byte(tt.src))
			require.NoError(t, err)

			assert.Equal(t, tt.want, outline(combined))

			combined.Walk(func(node *maintainability.Combined, _ int) {
				assert.GreaterOrEqual(t, node.Cyclomatic, 1, node.Name)
				assert.GreaterOrEqual(t, node.MaintainabilityIndex, 0.0, node.Name)
				assert.LessOrEqual(t, node.MaintainabilityIndex, 100.0, node.Name)
				assert.NotEmpty(t, node.Severity, node.Name)
			})
		})
	}
}

func TestFileAnalyzer_AnalyzeSourceAs(t *testing.T) {
	t.Parallel()

	analyzer := analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil)

	src := "const App = () => <div>{ok ? <A /> : <B />}</div>;"

	combined, err := analyzer.AnalyzeSourceAs(context.Background(), syntax.LanguageTSX, "snippet", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "snippet", combined.Name)
	require.Len(t, combined.Children, 1)
	assert.Equal(t, "App", combined.Children[0].Name)
	assert.Equal(t, 2, combined.Children[0].Cyclomatic)
}

func TestFileAnalyzer_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	analyzer := analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil)

	_, err := analyzer.AnalyzeSource(context.Background(), "main.py", []byte("print(1)"))
	require.ErrorIs(t, err, syntax.ErrUnsupportedLanguage)
}

func TestFileAnalyzer_MaxDepth(t *testing.T) {
	t.Parallel()

	opts := analyze.DefaultOptions()
	opts.MaxDepth = 4

	analyzer := analyze.NewFileAnalyzer(opts, nil)

	src := strings.Repeat("if (a) { ", 10) + strings.Repeat("} ", 10)

	_, err := analyzer.AnalyzeSource(context.Background(), "deep.ts", []byte(src))
	require.ErrorIs(t, err, traverse.ErrDepthExceeded)

	_, err = analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil).
		AnalyzeSource(context.Background(), "deep.ts", []byte(src))
	require.NoError(t, err)
}

func TestFileAnalyzer_EmitsSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	analyzer := analyze.NewFileAnalyzer(analyze.DefaultOptions(), tp.Tracer("test"))

	_, err := analyzer.AnalyzeSource(context.Background(), "a.ts", []byte(siblings))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, observability.SpanParseFile, spans[0].Name)
	assert.Equal(t, observability.SpanWalkFile, spans[1].Name)
}

func TestFileAnalyzer_NilTree(t *testing.T) {
	t.Parallel()

	_, err := analyze.NewFileAnalyzer(analyze.DefaultOptions(), nil).AnalyzeTree(nil)
	require.ErrorIs(t, err, syntax.ErrNoRootNode)
}

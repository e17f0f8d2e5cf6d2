package analyze_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func filePaths(result *analyze.Result) []string {
	paths := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		paths = append(paths, file.FilePath)
	}

	return paths
}

func TestService_AnalyzeFolder(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{
		"src/b.ts":                  "export function b() { return 1; }",
		"src/a.tsx":                 "export const A = () => <div />;",
		"src/util/c.js":             "function c(x) { return x ? 1 : 2; }",
		"src/big.ts":                "const big = '" + strings.Repeat("x", 256) + "';",
		"node_modules/lib/index.js": "module.exports = 1;",
		"vendor/lib.js":             "var v = 1;",
		".git/hooks/pre-commit.js":  "var g = 1;",
		"README.md":                 "# readme",
	})

	svc := analyze.NewService(analyze.ServiceDeps{Workers: 2, MaxFileSize: 128})

	result, err := svc.AnalyzePaths(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "src", "a.tsx"),
		filepath.Join(root, "src", "b.ts"),
		filepath.Join(root, "src", "util", "c.js"),
	}, filePaths(result))

	assert.ElementsMatch(t, []analyze.Skipped{
		{Path: filepath.Join(root, "src", "big.ts"), Reason: analyze.SkipTooLarge},
		{Path: filepath.Join(root, "vendor", "lib.js"), Reason: analyze.SkipVendored},
	}, result.Skipped)
	assert.Empty(t, result.Failed)

	c := result.Files[2]
	require.Len(t, c.Children, 1)
	assert.Equal(t, "c", c.Children[0].Name)
	assert.Equal(t, 2, c.Children[0].Cyclomatic)
}

func TestService_ExplicitFiles(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{
		"node_modules/pkg/index.ts": "export const x = 1;",
		"bin/tool":                  "#!/usr/bin/env node\nconsole.log(1);\n",
		"notes.txt":                 "hello",
	})

	explicit := filepath.Join(root, "node_modules", "pkg", "index.ts")
	script := filepath.Join(root, "bin", "tool")
	notes := filepath.Join(root, "notes.txt")

	result, err := analyze.NewService(analyze.ServiceDeps{}).
		AnalyzePaths(context.Background(), explicit, script, notes, explicit)
	require.NoError(t, err)

	assert.Equal(t, []string{script, explicit}, filePaths(result))
	assert.Equal(t, []analyze.Skipped{{Path: notes, Reason: analyze.SkipUnsupported}}, result.Skipped)
}

func TestService_CollectsFailures(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{
		"ok.ts":   "const a = 1;",
		"deep.ts": strings.Repeat("if (a) { ", 12) + strings.Repeat("} ", 12),
	})

	opts := analyze.DefaultOptions()
	opts.MaxDepth = 8

	svc := analyze.NewService(analyze.ServiceDeps{Analyzer: analyze.NewFileAnalyzer(opts, nil)})

	result, err := svc.AnalyzePaths(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "ok.ts")}, filePaths(result))
	require.Len(t, result.Failed, 1)
	assert.Equal(t, filepath.Join(root, "deep.ts"), result.Failed[0].Path)
	assert.Contains(t, result.Failed[0].Error, "depth")
}

func TestService_Errors(t *testing.T) {
	t.Parallel()

	svc := analyze.NewService(analyze.ServiceDeps{})

	_, err := svc.AnalyzePaths(context.Background())
	require.ErrorIs(t, err, analyze.ErrNoInput)

	_, err = svc.AnalyzePaths(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	root := writeFiles(t, map[string]string{"a.ts": "const a = 1;"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.AnalyzePaths(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestService_AnalyzeSourceRecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	metrics, err := observability.NewAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	svc := analyze.NewService(analyze.ServiceDeps{Metrics: metrics})

	combined, err := svc.AnalyzeSource(context.Background(), syntax.LanguageUnknown, "a.ts", []byte(siblings))
	require.NoError(t, err)

	scopes := 0

	combined.Walk(func(*maintainability.Combined, int) { scopes++ })

	_, err = svc.AnalyzeSource(context.Background(), syntax.LanguageTypeScript, "x.py", []byte("const a = 1;"))
	require.NoError(t, err)

	_, err = svc.AnalyzeSource(context.Background(), syntax.LanguageUnknown, "x.py", []byte("const a = 1;"))
	require.Error(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				counts[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(3), counts["tsmetrics.analysis.files.total"])
	assert.Equal(t, int64(scopes+1), counts["tsmetrics.analysis.scopes.total"])
}

func TestService_AnalyzeSourceRecomputes(t *testing.T) {
	t.Parallel()

	svc := analyze.NewService(analyze.ServiceDeps{})
	ctx := context.Background()
	src := []byte("function f(a) { return a ? 1 : 2; }")

	first, err := svc.AnalyzeSource(ctx, syntax.LanguageTypeScript, "f.ts", src)
	require.NoError(t, err)

	second, err := svc.AnalyzeSource(ctx, syntax.LanguageTypeScript, "f.ts", src)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

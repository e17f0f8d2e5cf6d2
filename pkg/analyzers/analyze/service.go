package analyze

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// DefaultMaxFileSize is the size above which files are skipped.
const DefaultMaxFileSize = 1 << 20

// Skip reasons.
const (
	SkipVendored    = "vendored"
	SkipTooLarge    = "too_large"
	SkipUnsupported = "unsupported"
)

// ErrNoInput is returned when AnalyzePaths receives no paths.
var ErrNoInput = errors.New("analyze: no input paths")

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// Skipped is a file that was not analyzed.
type Skipped struct {
	Path   string `json:"path"   yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Failure is a file whose analysis failed.
type Failure struct {
	Path  string `json:"path"  yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// Result is the outcome of analyzing a set of paths. Files are sorted by path.
type Result struct {
	Files   []*maintainability.Combined `json:"files"             yaml:"files"`
	Skipped []Skipped                   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed  []Failure                   `json:"failed,omitempty"  yaml:"failed,omitempty"`
}

// ServiceDeps holds the dependencies of a Service. Zero values select
// defaults: runtime.NumCPU workers, DefaultMaxFileSize, a discarding logger
// and no-op telemetry.
type ServiceDeps struct {
	Analyzer    *FileAnalyzer
	Workers     int
	MaxFileSize uint64
	Logger      *slog.Logger
	Tracer      trace.Tracer
	Metrics     *observability.AnalysisMetrics
}

// Service analyzes files and folder trees with a bounded worker pool.
type Service struct {
	analyzer    *FileAnalyzer
	workers     int
	maxFileSize uint64
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.AnalysisMetrics
}

// NewService creates a Service.
func NewService(deps ServiceDeps) *Service {
	svc := &Service{
		analyzer:    deps.Analyzer,
		workers:     deps.Workers,
		maxFileSize: deps.MaxFileSize,
		logger:      deps.Logger,
		tracer:      deps.Tracer,
		metrics:     deps.Metrics,
	}

	if svc.tracer == nil {
		svc.tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if svc.analyzer == nil {
		svc.analyzer = NewFileAnalyzer(DefaultOptions(), svc.tracer)
	}

	if svc.workers <= 0 {
		svc.workers = runtime.NumCPU()
	}

	if svc.maxFileSize == 0 {
		svc.maxFileSize = DefaultMaxFileSize
	}

	if svc.logger == nil {
		svc.logger = slog.New(slog.DiscardHandler)
	}

	return svc
}

// Analyzer returns the per-file analyzer.
func (svc *Service) Analyzer() *FileAnalyzer {
	return svc.analyzer
}

// AnalyzeSource analyzes in-memory content. An empty language is detected
// from path. Every call builds a fresh tree.
func (svc *Service) AnalyzeSource(
	ctx context.Context,
	lang syntax.Language,
	path string,
	content []byte,
) (*maintainability.Combined, error) {
	start := time.Now()

	var (
		combined *maintainability.Combined
		err      error
	)

	if lang == syntax.LanguageUnknown {
		combined, err = svc.analyzer.AnalyzeSource(ctx, path, content)
	} else {
		combined, err = svc.analyzer.AnalyzeSourceAs(ctx, lang, path, content)
	}

	if err != nil {
		svc.metrics.RecordFile(ctx, observability.FileFailed, time.Since(start))

		return nil, err
	}

	svc.record(ctx, combined, time.Since(start))

	return combined, nil
}

// AnalyzePaths analyzes files and folder trees. Directories are walked
// recursively, skipping VCS folders, node_modules and vendored files.
// Explicit file arguments are analyzed whatever their location. Per-file
// failures are collected in the result; only cancellation and walk errors
// abort the run.
func (svc *Service) AnalyzePaths(ctx context.Context, paths ...string) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	ctx, span := svc.tracer.Start(ctx, "tsmetrics.analyze")
	defer span.End()

	files, skipped, err := svc.collect(ctx, paths)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collect failed")

		return nil, err
	}

	span.SetAttributes(attribute.Int("analysis.files", len(files)))

	svc.logger.DebugContext(ctx, "analysis started", "files", len(files), "skipped", len(skipped), "workers", svc.workers)

	for _, skip := range skipped {
		svc.metrics.RecordFile(ctx, observability.FileSkipped, 0)
		svc.logger.InfoContext(ctx, "file skipped", "path", skip.Path, "reason", skip.Reason)
	}

	combined := make([]*maintainability.Combined, len(files))
	failures := make([]error, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(svc.workers)

	for idx, path := range files {
		group.Go(func() error {
			err := groupCtx.Err()
			if err != nil {
				return fmt.Errorf("analyze %s: %w", path, err)
			}

			combined[idx], failures[idx] = svc.analyzeFile(groupCtx, path)

			return nil
		})
	}

	err = errors.Join(group.Wait(), ctx.Err())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis canceled")

		return nil, err
	}

	result := &Result{Skipped: skipped}

	for idx, path := range files {
		if failures[idx] != nil {
			result.Failed = append(result.Failed, Failure{Path: path, Error: failures[idx].Error()})

			continue
		}

		result.Files = append(result.Files, combined[idx])
	}

	slices.SortFunc(result.Files, func(a, b *maintainability.Combined) int {
		return strings.Compare(a.FilePath, b.FilePath)
	})

	svc.logger.InfoContext(ctx, "analysis finished",
		"files", len(result.Files), "skipped", len(result.Skipped), "failed", len(result.Failed))

	return result, nil
}

func (svc *Service) analyzeFile(ctx context.Context, path string) (*maintainability.Combined, error) {
	start := time.Now()

	content, err := os.ReadFile(path)
	if err != nil {
		svc.metrics.RecordFile(ctx, observability.FileFailed, time.Since(start))
		svc.logger.WarnContext(ctx, "read failed", "path", path, "error", err)

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	combined, err := svc.analyzer.AnalyzeSource(ctx, path, content)
	if err != nil {
		svc.metrics.RecordFile(ctx, observability.FileFailed, time.Since(start))
		svc.logger.WarnContext(ctx, "analysis failed", "path", path, "error", err)

		return nil, err
	}

	svc.record(ctx, combined, time.Since(start))

	return combined, nil
}

func (svc *Service) record(ctx context.Context, combined *maintainability.Combined, elapsed time.Duration) {
	svc.metrics.RecordFile(ctx, observability.FileAnalyzed, elapsed)

	combined.Walk(func(node *maintainability.Combined, _ int) {
		svc.metrics.RecordScope(ctx, string(node.Scope), string(node.Severity))
	})
}

// collect expands paths into the sorted list of files to analyze.
func (svc *Service) collect(ctx context.Context, paths []string) ([]string, []Skipped, error) {
	var (
		files   []string
		skipped []Skipped
	)

	seen := make(map[string]bool)

	add := func(path string, size int64) {
		if seen[path] {
			return
		}

		seen[path] = true

		if size >= 0 && uint64(size) > svc.maxFileSize {
			svc.logger.DebugContext(ctx, "file too large",
				"path", path, "size", humanize.Bytes(uint64(size)), "limit", humanize.Bytes(svc.maxFileSize))

			skipped = append(skipped, Skipped{Path: path, Reason: SkipTooLarge})

			return
		}

		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			content, readErr := readHead(root)
			if readErr != nil {
				return nil, nil, readErr
			}

			if syntax.DetectLanguage(root, content) == syntax.LanguageUnknown {
				skipped = append(skipped, Skipped{Path: root, Reason: SkipUnsupported})

				continue
			}

			add(root, info.Size())

			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			return svc.visitEntry(ctx, root, path, entry, walkErr, add, &skipped)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	slices.Sort(files)

	return files, skipped, nil
}

func (svc *Service) visitEntry(
	ctx context.Context,
	root, path string,
	entry fs.DirEntry,
	walkErr error,
	add func(path string, size int64),
	skipped *[]Skipped,
) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrPermission) || errors.Is(walkErr, fs.ErrNotExist) {
			svc.logger.WarnContext(ctx, "path not accessible", "path", path, "error", walkErr)

			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		return walkErr
	}

	if entry.IsDir() {
		if path != root && skippedDirs[entry.Name()] {
			return filepath.SkipDir
		}

		return nil
	}

	if !entry.Type().IsRegular() || !syntax.IsSupportedFile(path) {
		return nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	if syntax.IsVendored(rel) {
		*skipped = append(*skipped, Skipped{Path: path, Reason: SkipVendored})

		return nil
	}

	info, err := entry.Info()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	add(path, info.Size())

	return nil
}

// languageSniffSize is how much of an extensionless file is read to detect
// its language.
const languageSniffSize = 4096

func readHead(path string) ([]byte, error) {
	if syntax.IsSupportedFile(path) {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, languageSniffSize)

	n, err := file.Read(buf)
	if err != nil && n == 0 {
		return []byte{}, nil //nolint:nilerr // empty files have no language
	}

	return buf[:n], nil
}

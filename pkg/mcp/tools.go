package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Tool names.
const (
	ToolNameAnalyze     = "tsmetrics_analyze"
	ToolNameAnalyzePath = "tsmetrics_analyze_path"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	ErrEmptyCode           = errors.New("code parameter is required and must not be empty")
	ErrCodeTooLarge        = errors.New("code input exceeds maximum size")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrEmptyPath           = errors.New("path parameter is required and must not be empty")
	ErrPathNotAbsolute     = errors.New("path must be an absolute path")
	ErrPathNotFound        = errors.New("path does not exist")
)

// AnalyzeInput is the input schema for the tsmetrics_analyze tool.
type AnalyzeInput struct {
	Code     string `json:"code"               jsonschema:"source code to analyze"`
	Language string `json:"language,omitempty" jsonschema:"typescript, tsx or javascript (default: typescript)"`
	Path     string `json:"path,omitempty"     jsonschema:"optional file name reported for the code"`
}

// AnalyzePathInput is the input schema for the tsmetrics_analyze_path tool.
type AnalyzePathInput struct {
	Path        string `json:"path"                   jsonschema:"absolute path to a file or folder"`
	MinSeverity string `json:"min_severity,omitempty" jsonschema:"only list scopes at least this severe: normal, alert or critical"`
}

// PathOutput is the result of tsmetrics_analyze_path. Rows is set only when a
// minimum severity was requested.
type PathOutput struct {
	Report *report.Document `json:"report"`
	Rows   []report.Row     `json:"rows,omitempty"`
}

// ToolOutput is the structured output of every tool.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input AnalyzeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Code == "" {
		return errorResult(ErrEmptyCode)
	}

	if len(input.Code) > MaxCodeInputBytes {
		return errorResult(fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes))
	}

	lang := syntax.LanguageTypeScript
	if input.Language != "" {
		lang = syntax.ParseLanguage(input.Language)
		if lang == syntax.LanguageUnknown {
			return errorResult(fmt.Errorf("%w: %s", ErrUnsupportedLanguage, input.Language))
		}
	}

	path := input.Path
	if path == "" {
		path = "input"
	}

	combined, err := s.service.AnalyzeSource(ctx, lang, path, []byte(input.Code))
	if err != nil {
		return errorResult(fmt.Errorf("analyze code: %w", err))
	}

	return jsonResult(combined)
}

func (s *Server) handleAnalyzePath(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input AnalyzePathInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	if !filepath.IsAbs(input.Path) {
		return errorResult(fmt.Errorf("%w: %s", ErrPathNotAbsolute, input.Path))
	}

	_, err := os.Stat(input.Path)
	if err != nil {
		return errorResult(fmt.Errorf("%w: %s", ErrPathNotFound, input.Path))
	}

	var minimum maintainability.Severity

	if input.MinSeverity != "" {
		minimum, err = maintainability.ParseSeverity(input.MinSeverity)
		if err != nil {
			return errorResult(err)
		}
	}

	result, err := s.service.AnalyzePaths(ctx, input.Path)
	if err != nil {
		return errorResult(fmt.Errorf("analyze path: %w", err))
	}

	out := PathOutput{Report: report.NewDocument(result, serverName)}

	if minimum != "" {
		out.Rows = report.Filter(report.Flatten(out.Report.Files...), minimum)
	}

	return jsonResult(out)
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/traverse"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Request errors.
var (
	ErrEmptyRequest        = errors.New("either code or path is required")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// defaultSourceName names inline code sent without a path.
const defaultSourceName = "input.ts"

// AnalyzeRequest is the body of POST /v1/analyze. With Code set the code is
// analyzed in memory and Path only names it; otherwise Path is read from
// disk.
type AnalyzeRequest struct {
	Path     string `json:"path,omitempty"`
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type analyzeHandler struct {
	service  *analyze.Service
	logger   *slog.Logger
	maxBytes int64
}

func (h *analyzeHandler) ServeHTTP(rw http.ResponseWriter, hr *http.Request) {
	ctx := hr.Context()

	var req AnalyzeRequest

	dec := json.NewDecoder(http.MaxBytesReader(rw, hr.Body, h.maxBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(rw, hr, http.StatusRequestEntityTooLarge, err)

			return
		}

		h.fail(rw, hr, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))

		return
	}

	lang := syntax.LanguageUnknown
	if req.Language != "" {
		lang = syntax.ParseLanguage(req.Language)
		if lang == syntax.LanguageUnknown {
			h.fail(rw, hr, http.StatusBadRequest, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, req.Language))

			return
		}
	}

	switch {
	case req.Code != "":
		path := req.Path
		if path == "" {
			path = defaultSourceName
		}

		combined, analyzeErr := h.service.AnalyzeSource(ctx, lang, path, []byte(req.Code))
		if analyzeErr != nil {
			h.fail(rw, hr, statusOf(analyzeErr), analyzeErr)

			return
		}

		h.write(rw, hr, combined)
	case req.Path != "":
		result, analyzeErr := h.service.AnalyzePaths(ctx, req.Path)
		if analyzeErr != nil {
			h.fail(rw, hr, statusOf(analyzeErr), analyzeErr)

			return
		}

		h.write(rw, hr, report.NewDocument(result, "tsmetrics"))
	default:
		h.fail(rw, hr, http.StatusBadRequest, ErrEmptyRequest)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, syntax.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, traverse.ErrDepthExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *analyzeHandler) write(rw http.ResponseWriter, hr *http.Request, value any) {
	rw.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(rw).Encode(value)
	if err != nil {
		h.logger.ErrorContext(hr.Context(), "failed to encode JSON response", "error", err)
	}
}

func (h *analyzeHandler) fail(rw http.ResponseWriter, hr *http.Request, code int, err error) {
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	h.logger.Log(hr.Context(), level, "analyze request failed", "status", code, "error", err)

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	encodeErr := json.NewEncoder(rw).Encode(ErrorResponse{Error: err.Error()})
	if encodeErr != nil {
		h.logger.ErrorContext(hr.Context(), "failed to encode JSON response", "error", encodeErr)
	}
}

package report

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/report.schema.json
var reportSchema []byte

// ErrInvalidReport is returned when a report does not match the schema.
var ErrInvalidReport = errors.New("report does not match schema")

// Schema returns the JSON schema of the JSON report.
func Schema() []byte {
	return reportSchema
}

// Validate checks a JSON report against the schema. On a mismatch it returns
// one message per violation together with ErrInvalidReport.
func Validate(data []byte) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(reportSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return violations, ErrInvalidReport
}

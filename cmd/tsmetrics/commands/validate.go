package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
)

const stdinPath = "-"

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <report.json[.lz4]|->",
		Short: "Check a JSON report against the report schema",
		Long: `Check a JSON report produced by "tsmetrics analyze --format json" against the
embedded report schema. Files ending in .lz4 are decompressed first; "-" reads
standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runValidate(stdin io.Reader, out io.Writer, path string, noColor bool) error {
	data, err := readReport(stdin, path)
	if err != nil {
		return err
	}

	valid := color.New(color.FgGreen)
	invalid := color.New(color.FgRed)

	if noColor {
		valid.DisableColor()
		invalid.DisableColor()
	}

	name := path
	if path == stdinPath {
		name = "stdin"
	}

	violations, err := report.Validate(data)
	if errors.Is(err, report.ErrInvalidReport) {
		_, _ = invalid.Fprintf(out, "%s: %d violation(s)\n", name, len(violations))

		for _, violation := range violations {
			_, _ = fmt.Fprintf(out, "  - %s\n", violation)
		}

		return fmt.Errorf("%s: %w", name, err)
	}

	if err != nil {
		return err
	}

	_, _ = valid.Fprintf(out, "%s: valid\n", name)

	return nil
}

func readReport(stdin io.Reader, path string) ([]byte, error) {
	if path == stdinPath {
		return io.ReadAll(stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(report.NewReader(file, path))
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	return data, nil
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/config"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/report"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/version"
)

// ErrSeverityThreshold is returned when a report reaches the --fail-on severity.
var ErrSeverityThreshold = errors.New("severity threshold reached")

// AnalyzeCommand holds the flags of the analyze command. Unset flags keep the
// configured values.
type AnalyzeCommand struct {
	configPath  string
	format      string
	output      string
	sortKey     string
	desc        bool
	minSeverity string
	failOn      string
	workers     int
	limit       int
	noColor     bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze files and folders",
		Long: `Analyze TypeScript, TSX and JavaScript files and render a maintainability report.

Folders are walked recursively; vendored paths, unsupported files and files
above analysis.max_file_size are skipped. Without paths the current folder is
analyzed. Output files ending in .lz4 are lz4-compressed.`,
		RunE: ac.run,
	}

	addConfigFlag(cmd, &ac.configPath)
	cmd.Flags().StringVarP(&ac.format, "format", "f", config.DefaultFormat,
		"Output format: text, compact, json, yaml, markdown, csv, html, plot")
	cmd.Flags().StringVarP(&ac.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&ac.sortKey, "sort", config.DefaultSort, "Sort rows by: mi, cyclomatic, cognitive, volume, lines, name, path")
	cmd.Flags().BoolVar(&ac.desc, "desc", false, "Sort in descending order")
	cmd.Flags().StringVar(&ac.minSeverity, "min-severity", config.DefaultMinSeverity, "Hide rows below severity: normal, alert, critical")
	cmd.Flags().StringVar(&ac.failOn, "fail-on", "", "Exit with an error when any scope reaches severity: normal, alert, critical")
	cmd.Flags().IntVar(&ac.workers, "workers", config.DefaultWorkers, "Number of parallel workers (0 = use CPU count)")
	cmd.Flags().IntVar(&ac.limit, "limit", 0, "Show at most this many rows (0 = no limit)")
	cmd.Flags().BoolVar(&ac.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (ac *AnalyzeCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd, ac.configPath, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer rt.close()

	ac.apply(cmd, rt.cfg)

	err = rt.cfg.Validate()
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(rt.cfg.Output.Format)
	if err != nil {
		return err
	}

	opts, err := rt.cfg.ReportOptions()
	if err != nil {
		return err
	}

	var failOn maintainability.Severity

	if ac.failOn != "" {
		failOn, err = maintainability.ParseSeverity(ac.failOn)
		if err != nil {
			return err
		}
	}

	svc, err := rt.service()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	silent := isQuiet(cmd)
	progressWriter := cmd.ErrOrStderr()

	progressf(silent, progressWriter, "analyzing paths=%d workers=%d", len(paths), rt.cfg.Analysis.Workers)

	result, err := svc.AnalyzePaths(cmd.Context(), paths...)
	if err != nil {
		return err
	}

	doc := report.NewDocument(result, "tsmetrics "+version.Get().Version)

	progressf(silent, progressWriter, "analyzed files=%d scopes=%d skipped=%d failed=%d",
		doc.Summary.Files, doc.Summary.Scopes, doc.Summary.Skipped, doc.Summary.Failed)

	err = ac.write(cmd.OutOrStdout(), format, doc, opts)
	if err != nil {
		return err
	}

	if failOn != "" && doc.Summary.Scopes > 0 && doc.WorstSeverity().AtLeast(failOn) {
		return fmt.Errorf("%w: worst severity is %s", ErrSeverityThreshold, doc.WorstSeverity())
	}

	return nil
}

// apply copies the explicitly set flags over the configuration.
func (ac *AnalyzeCommand) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = ac.format
	}

	if flags.Changed("sort") {
		cfg.Output.Sort = ac.sortKey
	}

	if flags.Changed("desc") {
		cfg.Output.Desc = ac.desc
	}

	if flags.Changed("min-severity") {
		cfg.Output.MinSeverity = ac.minSeverity
	}

	if flags.Changed("limit") {
		cfg.Output.Limit = ac.limit
	}

	if flags.Changed("no-color") {
		cfg.Output.NoColor = ac.noColor
	}

	if flags.Changed("workers") {
		cfg.Analysis.Workers = ac.workers
	}
}

func (ac *AnalyzeCommand) write(stdout io.Writer, format report.Format, doc *report.Document, opts report.Options) (err error) {
	if ac.output == "" {
		return report.Render(stdout, format, doc, opts)
	}

	file, err := os.Create(ac.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	writer := report.NewWriter(file, ac.output)

	renderErr := report.Render(writer, format, doc, opts)

	return errors.Join(renderErr, writer.Close())
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/analyze"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/lsp"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
)

// NewLSPCommand creates the language server command.
func NewLSPCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Start a Language Server Protocol server on stdio.

Open, changed and saved documents get one diagnostic per alert or critical
scope; hover shows the metrics of the innermost scope under the cursor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, configPath, observability.ModeLSP)
			if err != nil {
				return err
			}
			defer rt.close()

			analyzer := analyze.NewFileAnalyzer(rt.cfg.AnalyzeOptions(), rt.providers.Tracer)

			return lsp.NewServer(analyzer, rt.providers.Logger).Run()
		},
	}

	addConfigFlag(cmd, &configPath)

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/mcp"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - tsmetrics_analyze: metrics of inline TypeScript, TSX or JavaScript code
  - tsmetrics_analyze_path: report for an absolute file or folder path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, configPath, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer rt.close()

			svc, err := rt.service()
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(rt.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Service: svc,
				Logger:  rt.providers.Logger,
				Metrics: red,
				Tracer:  rt.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	addConfigFlag(cmd, &configPath)

	return cmd
}

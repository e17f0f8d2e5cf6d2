// Package main provides the entry point for the tsmetrics CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsmetrics/cmd/tsmetrics/commands"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tsmetrics",
		Short: "Maintainability metrics for TypeScript and JavaScript",
		Long: `tsmetrics measures cyclomatic complexity, cognitive complexity and semantic
syntax volume for every file, class, function, method and object literal, and
combines them into a maintainability index.

Commands:
  analyze   Analyze files and folders and render a report
  validate  Check a JSON report against the report schema
  serve     Run the HTTP API
  mcp       Run the MCP server on stdio
  lsp       Run the language server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(commands.NewLSPCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

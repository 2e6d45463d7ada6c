package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/internal/synthesis"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render synthesized ideas as markdown, text, or JSON",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("format", "markdown", "output format: markdown, text, or json")
	reportCmd.Flags().String("output", "", "write the report to this file instead of stdout")
	reportCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	statePath := stateFlag(cmd, cfg)
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	state, err := explore.Load(statePath)
	if err != nil {
		return err
	}

	rendered, err := synthesis.Format(state.SynthesizedIdeas, format)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			return err
		}
		fmt.Printf("Output saved to %s\n", output)
		return nil
	}
	fmt.Println(rendered)
	return nil
}

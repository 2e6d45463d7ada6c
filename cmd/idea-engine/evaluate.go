package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/internal/score"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score stored results against the evaluation criteria",
	Long: `Evaluate scores every stored result's response text and writes one
evaluation per combination back to the run-state file. Criteria can be
narrowed with --criteria; the overall score is always computed over the
criteria that were kept.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringSlice("criteria", nil, "criteria to score (default all registered)")
	evaluateCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	statePath := stateFlag(cmd, cfg)

	state, err := explore.Load(statePath)
	if err != nil {
		return err
	}
	if len(state.Results) == 0 {
		fmt.Println("No results to evaluate")
		return nil
	}

	criteria, _ := cmd.Flags().GetStringSlice("criteria")
	if len(criteria) == 0 {
		criteria = cfg.Scoring.Criteria
	}

	evaluations := score.Default().EvaluateResults(state, criteria)

	if err := state.Save(statePath); err != nil {
		return err
	}
	fmt.Printf("Evaluated %d results\n", len(evaluations))
	return nil
}

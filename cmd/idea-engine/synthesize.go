package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/internal/synthesis"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Combine top-ranked results into synthesized ideas",
	Long: `Synthesize ranks evaluated results by a criterion, takes the top N, and
combines them into ideas with the selected method. Ideas accumulate in
the run-state file across invocations.

Methods: cluster_based groups the ranked results into thirds and distills
one idea per group; cross_pollination merges all of them into a single
cross-cutting idea.`,
	RunE: runSynthesize,
}

func init() {
	synthesizeCmd.Flags().String("method", "", "synthesis method (default from config or cluster_based)")
	synthesizeCmd.Flags().Int("top", 0, "number of top results to synthesize from (0 = config default)")
	synthesizeCmd.Flags().String("criterion", "", "ranking criterion (default from config or overall)")
	synthesizeCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	rootCmd.AddCommand(synthesizeCmd)
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	statePath := stateFlag(cmd, cfg)

	method, _ := cmd.Flags().GetString("method")
	if method == "" {
		method = cfg.Synthesis.Method
	}
	criterion, _ := cmd.Flags().GetString("criterion")
	if criterion == "" {
		criterion = cfg.Synthesis.Criterion
	}
	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = cfg.Scoring.TopN
	}

	state, err := explore.Load(statePath)
	if err != nil {
		return err
	}

	ranked := score.TopN(state, criterion, topN)
	if len(ranked) == 0 {
		fmt.Println("No results to synthesize")
		return nil
	}

	synth := synthesis.For(method)
	if synth == nil {
		fmt.Printf("Unknown synthesis method: %s\n", method)
		return nil
	}

	fmt.Printf("Synthesizing ideas from %d top results using %s method\n", len(ranked), method)
	ideas := synth.Synthesize(ranked)
	state.AddIdeas(ideas)

	if err := state.Save(statePath); err != nil {
		return err
	}
	fmt.Printf("Synthesized %d ideas\n", len(ideas))
	return nil
}

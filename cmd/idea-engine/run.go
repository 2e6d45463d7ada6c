package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/internal/synthesis"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Run the complete pipeline from query to formatted ideas",
	Long: `Run executes every stage in order for a single query: generate the
combination matrix, execute it, evaluate the results, synthesize ideas
from the top-ranked ones, and render the output. The run state is saved
so show and archive can inspect it afterwards.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("query", "", "query text to run the pipeline for")
	runCmd.Flags().String("domain", "", "focus on domains matching this name or keyword")
	runCmd.Flags().Int("backends", 0, "number of backends to sample (0 = config default)")
	runCmd.Flags().Int("instructions", 0, "number of instruction templates to sample (0 = config default)")
	runCmd.Flags().Int("variations", 0, "number of query variants to generate (0 = config default)")
	runCmd.Flags().Int("max", 10, "maximum combinations to execute")
	runCmd.Flags().Int("workers", 0, "concurrent execution workers (0 = config or 4)")
	runCmd.Flags().Float64("rate", 0, "real API requests per second (0 = config or 5)")
	runCmd.Flags().Int64("seed", 0, "random seed for sampling and simulation (0 = time-based)")
	runCmd.Flags().String("method", "", "synthesis method (default from config or cluster_based)")
	runCmd.Flags().String("format", "markdown", "output format: markdown, text, or json")
	runCmd.Flags().String("output", "", "write the output to this file instead of stdout")
	runCmd.Flags().Bool("simulate", false, "use simulated responses instead of real model APIs")
	runCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	if queryText == "" {
		return fmt.Errorf("provide a query with --query or as an argument")
	}

	cfg := loadPipelineConfig()
	exploreCfg := exploreConfigFromFlags(cmd, cfg)
	statePath := stateFlag(cmd, cfg)
	exploreCfg.Simulate = reportAPIStatus(exploreCfg.Simulate)

	method, _ := cmd.Flags().GetString("method")
	if method == "" {
		method = cfg.Synthesis.Method
	}
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	fmt.Printf("Running complete pipeline for query: %s\n", queryText)

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}

	queryID := "query_" + uuid.NewString()[:8]
	cat.Queries.AddBase(types.Query{ID: queryID, Text: queryText})
	domainIDs := resolveDomains(cmd, cat)

	state := explore.NewRunState()
	executor := explore.NewExecutor(cat, cfg.Backends, exploreCfg, os.Stdout)

	combos, err := explore.GenerateCombinations(explore.GenerateOptions{
		Catalog:          cat,
		Backends:         cfg.Backends,
		QueryID:          queryID,
		QueryVariations:  exploreCfg.QueryVariations,
		DomainIDs:        domainIDs,
		BackendCount:     exploreCfg.BackendCount,
		InstructionCount: exploreCfg.InstructionCount,
		Rand:             executor.Rand(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d combinations\n", len(combos))
	state.SetWorkingSet(combos)

	_, execErr := executor.Execute(cmd.Context(), state, false)
	if err := state.Save(statePath); err != nil {
		return err
	}
	if execErr != nil {
		return execErr
	}

	evaluations := score.Default().EvaluateResults(state, cfg.Scoring.Criteria)
	if len(evaluations) == 0 {
		fmt.Println("No results to evaluate")
	} else {
		fmt.Printf("Evaluated %d results\n", len(evaluations))
	}

	ranked := score.TopN(state, cfg.Synthesis.Criterion, cfg.Scoring.TopN)
	if len(ranked) == 0 {
		fmt.Println("No results to synthesize")
	} else if synth := synthesis.For(method); synth == nil {
		fmt.Printf("Unknown synthesis method: %s\n", method)
	} else {
		fmt.Printf("Synthesizing ideas from %d top results using %s method\n", len(ranked), method)
		ideas := synth.Synthesize(ranked)
		state.AddIdeas(ideas)
		fmt.Printf("Synthesized %d ideas\n", len(ideas))
	}

	if err := state.Save(statePath); err != nil {
		return err
	}

	rendered, err := synthesis.Format(state.SynthesizedIdeas, format)
	if err != nil {
		return err
	}
	fmt.Println("Pipeline execution complete")

	if output != "" {
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			return err
		}
		fmt.Printf("Output saved to %s\n", output)
		return nil
	}
	fmt.Println("\nOutput:")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println(rendered)
	return nil
}

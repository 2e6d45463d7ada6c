package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect the run state: summary, rankings, results, and ideas",
	Long: `Show inspects the run-state file. Without flags it prints a summary of
the run. --top ranks evaluated results, --result prints one result in
full, and --idea prints one synthesized idea.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().Int("top", 0, "show the top N evaluated results")
	showCmd.Flags().String("criterion", "overall", "ranking criterion for --top")
	showCmd.Flags().String("result", "", "show the result for this combination id")
	showCmd.Flags().String("idea", "", "show the synthesized idea with this id")
	showCmd.Flags().Bool("json", false, "output as JSON")
	showCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	statePath := stateFlag(cmd, cfg)

	state, err := explore.Load(statePath)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	resultID, _ := cmd.Flags().GetString("result")
	ideaID, _ := cmd.Flags().GetString("idea")
	topN, _ := cmd.Flags().GetInt("top")
	criterion, _ := cmd.Flags().GetString("criterion")

	switch {
	case resultID != "":
		return showResult(state, resultID, jsonOutput)
	case ideaID != "":
		return showIdea(state, ideaID, jsonOutput)
	case topN > 0:
		return showTop(state, criterion, topN, jsonOutput)
	default:
		showSummary(state)
		return nil
	}
}

func showResult(state *explore.RunState, id string, jsonOutput bool) error {
	result, ok := state.Results[id]
	if !ok {
		return fmt.Errorf("no result found with id %s", id)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Combination ID: %s\n", result.CombinationID)
	fmt.Println("\nPrompt:")
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println(result.Prompt)
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println("\nResponse:")
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println(result.Response)
	fmt.Println(strings.Repeat("-", 80))

	fmt.Println("\nMetadata:")
	fmt.Printf("- status: %s\n", result.Status)
	fmt.Printf("- backend: %s\n", result.Metadata.Backend)
	fmt.Printf("- style: %s\n", result.Metadata.Style)
	fmt.Printf("- timestamp: %s\n", result.Metadata.Timestamp.Format(time.RFC3339))
	if result.Metadata.DurationSeconds > 0 {
		fmt.Printf("- duration_seconds: %.2f\n", result.Metadata.DurationSeconds)
	}
	if result.Metadata.Simulated {
		fmt.Println("- simulated: true")
	}
	if result.Metadata.Error != "" {
		fmt.Printf("- error: %s\n", result.Metadata.Error)
	}

	if eval, ok := state.Evaluations[id]; ok {
		criteria := make([]string, 0, len(eval))
		for name := range eval {
			if name != "overall" {
				criteria = append(criteria, name)
			}
		}
		sort.Strings(criteria)

		fmt.Println("\nScores:")
		for _, name := range criteria {
			fmt.Printf("- %s: %.4f\n", name, eval[name])
		}
		if overall, ok := eval["overall"]; ok {
			fmt.Printf("\nOverall Score: %.4f\n", overall)
		}
	}
	return nil
}

func showIdea(state *explore.RunState, id string, jsonOutput bool) error {
	idea, ok := state.SynthesizedIdeas[id]
	if !ok {
		return fmt.Errorf("no idea found with id %s", id)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(idea)
	}

	fmt.Printf("ID: %s\n", idea.ID)
	fmt.Printf("Title: %s\n", idea.Title)
	fmt.Println("\nDescription:")
	fmt.Println(idea.Description)
	fmt.Println("\nContent:")
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println(idea.Text)
	fmt.Println(strings.Repeat("-", 80))

	if len(idea.SourceCombinations) > 0 {
		fmt.Println("\nSource Combinations:")
		for _, comboID := range idea.SourceCombinations {
			fmt.Printf("- %s\n", comboID)
		}
	}

	fmt.Println("\nMetadata:")
	fmt.Printf("- method: %s\n", idea.Metadata.Method)
	if idea.Metadata.ClusterID > 0 {
		fmt.Printf("- cluster_id: %d\n", idea.Metadata.ClusterID)
	}
	if idea.Metadata.ClusterSize > 0 {
		fmt.Printf("- cluster_size: %d\n", idea.Metadata.ClusterSize)
	}
	if idea.Metadata.SourcesCount > 0 {
		fmt.Printf("- sources_count: %d\n", idea.Metadata.SourcesCount)
	}
	fmt.Printf("- average_score: %.4f\n", idea.Metadata.AverageScore)
	return nil
}

func showTop(state *explore.RunState, criterion string, n int, jsonOutput bool) error {
	ranked := score.TopN(state, criterion, n)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	if len(ranked) == 0 {
		fmt.Println("No evaluated results to rank")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-40s  %-16s  %s\n",
		"Rank", "Score", "Combination", "Status", "Response")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, sr := range ranked {
		fmt.Fprintf(os.Stdout, "%-4d  %-8.4f  %-40s  %-16s  %s\n",
			i+1, sr.Score, truncate(sr.CombinationID, 40),
			sr.Result.Status, truncate(firstLine(sr.Result.Response), 40))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(ranked))
	return nil
}

func showSummary(state *explore.RunState) {
	fmt.Printf("Combinations: %d\n", len(state.Combinations))
	fmt.Printf("Results: %d\n", len(state.Results))
	fmt.Printf("Evaluations: %d\n", len(state.Evaluations))
	fmt.Printf("Synthesized Ideas: %d\n", len(state.SynthesizedIdeas))

	if len(state.Combinations) > 0 {
		counts := make(map[types.ResultStatus]int)
		for _, combo := range state.Combinations {
			counts[state.StatusOf(combo.ID)]++
		}
		fmt.Println("\nExecution status:")
		for _, status := range []types.ResultStatus{
			types.StatusPending,
			types.StatusSucceeded,
			types.StatusFailedFallback,
			types.StatusFailedTerminal,
		} {
			if counts[status] > 0 {
				fmt.Printf("- %s: %d\n", status, counts[status])
			}
		}
	}

	if top := score.TopN(state, "overall", 5); len(top) > 0 {
		fmt.Println("\nTop 5 Results by Overall Score:")
		for i, sr := range top {
			fmt.Printf("%d. %s (Score: %.4f)\n", i+1, sr.CombinationID, sr.Score)
		}
	}

	if len(state.SynthesizedIdeas) > 0 {
		ids := make([]string, 0, len(state.SynthesizedIdeas))
		for id := range state.SynthesizedIdeas {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println("\nSynthesized Ideas:")
		for i, id := range ids {
			fmt.Printf("%d. %s\n", i+1, state.SynthesizedIdeas[id].Title)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

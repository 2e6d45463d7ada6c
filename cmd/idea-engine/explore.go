package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Generate and execute the combination matrix for a query",
	Long: `Explore builds the combination matrix for a query (the base query plus
generated variants, crossed with sampled backends, sampled instruction
templates, and domains) and executes it through the worker pool. Results
land in the run-state file; re-executing a combination overwrites its
stored result.`,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().String("query", "", "query text to explore (registered under a fresh id)")
	exploreCmd.Flags().String("query-id", "", "existing base query id to explore")
	exploreCmd.Flags().String("domain", "", "focus on domains matching this name or keyword")
	exploreCmd.Flags().Int("backends", 0, "number of backends to sample (0 = config default)")
	exploreCmd.Flags().Int("instructions", 0, "number of instruction templates to sample (0 = config default)")
	exploreCmd.Flags().Int("variations", 0, "number of query variants to generate (0 = config default)")
	exploreCmd.Flags().Int("max", 0, "maximum combinations to execute (0 = no cap)")
	exploreCmd.Flags().Int("workers", 0, "concurrent execution workers (0 = config or 4)")
	exploreCmd.Flags().Float64("rate", 0, "real API requests per second (0 = config or 5)")
	exploreCmd.Flags().Int64("seed", 0, "random seed for sampling and simulation (0 = time-based)")
	exploreCmd.Flags().Bool("simulate", false, "use simulated responses instead of real model APIs")
	exploreCmd.Flags().Bool("dry-run", false, "print what would be executed without executing")
	exploreCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	exploreCfg := exploreConfigFromFlags(cmd, cfg)
	statePath := stateFlag(cmd, cfg)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !dryRun {
		exploreCfg.Simulate = reportAPIStatus(exploreCfg.Simulate)
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}

	state, err := explore.LoadOrNew(statePath)
	if err != nil {
		return err
	}

	executor := explore.NewExecutor(cat, cfg.Backends, exploreCfg, os.Stdout)

	queryID, err := resolveQuery(cmd, cat)
	if err != nil {
		return err
	}
	domainIDs := resolveDomains(cmd, cat)

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

	summary, execErr := executor.Execute(cmd.Context(), state, dryRun)

	// State is written before any execution error propagates, so an
	// interrupted run keeps the results collected so far.
	if !dryRun {
		if err := state.Save(statePath); err != nil {
			return err
		}
		fmt.Printf("State saved to %s\n", statePath)
	}
	if execErr != nil {
		return execErr
	}
	if summary.Failed > 0 {
		fmt.Printf("%d combination(s) recorded failures\n", summary.Failed)
	}
	return nil
}

// exploreConfigFromFlags overlays command-line flags on the configured
// exploration settings. Zero-valued flags keep the config values.
func exploreConfigFromFlags(cmd *cobra.Command, cfg types.PipelineConfig) types.ExploreConfig {
	ec := cfg.Explore

	if n, _ := cmd.Flags().GetInt("backends"); n > 0 {
		ec.BackendCount = n
	}
	if n, _ := cmd.Flags().GetInt("instructions"); n > 0 {
		ec.InstructionCount = n
	}
	if n, _ := cmd.Flags().GetInt("variations"); n > 0 {
		ec.QueryVariations = n
	}
	if n, _ := cmd.Flags().GetInt("max"); n > 0 {
		ec.MaxCombinations = n
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		ec.Workers = n
	}
	if r, _ := cmd.Flags().GetFloat64("rate"); r > 0 {
		ec.RequestsPerSecond = r
	}
	if s, _ := cmd.Flags().GetInt64("seed"); s != 0 {
		ec.Seed = s
	}
	if sim, _ := cmd.Flags().GetBool("simulate"); sim {
		ec.Simulate = true
	}
	return ec
}

func stateFlag(cmd *cobra.Command, cfg types.PipelineConfig) string {
	path, _ := cmd.Flags().GetString("state")
	if path == "" {
		path = cfg.StatePath
	}
	return path
}

// resolveQuery returns the base query id to explore: --query text registers
// a fresh query, --query-id references an existing one.
func resolveQuery(cmd *cobra.Command, cat *catalog.Catalog) (string, error) {
	queryText, _ := cmd.Flags().GetString("query")
	queryID, _ := cmd.Flags().GetString("query-id")

	switch {
	case queryText != "":
		id := "query_" + uuid.NewString()[:8]
		cat.Queries.AddBase(types.Query{ID: id, Text: queryText})
		return id, nil
	case queryID != "":
		if _, err := cat.Queries.Get(queryID); err != nil {
			return "", err
		}
		return queryID, nil
	default:
		return "", fmt.Errorf("provide --query text or --query-id")
	}
}

// resolveDomains maps a --domain name search to domain ids. No match means
// all domains.
func resolveDomains(cmd *cobra.Command, cat *catalog.Catalog) []string {
	name, _ := cmd.Flags().GetString("domain")
	if name == "" {
		return nil
	}

	matches := cat.Domains.Search(name)
	if len(matches) == 0 {
		fmt.Printf("No domains found matching '%s', using all domains\n", name)
		return nil
	}

	ids := make([]string, len(matches))
	for i, d := range matches {
		ids[i] = d.ID
	}
	fmt.Printf("Found %d matching domains for '%s'\n", len(ids), name)
	return ids
}

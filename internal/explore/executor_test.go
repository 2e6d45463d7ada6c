package explore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// execCatalog builds a catalog with one template, one base query, and one
// domain, enough to execute a single combination end to end.
func execCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := &catalog.Catalog{
		Templates: catalog.NewTemplates(),
		Queries:   catalog.NewQueries(),
		Domains:   catalog.NewDomains(),
	}
	if err := cat.Templates.Add(types.InstructionTemplate{
		ID:       "ins_expert",
		Name:     "Domain Expert",
		Text:     "You are an expert in {domain}. Generate ideas.",
		Metadata: map[string]string{"cognitive_style": "analytical"},
	}); err != nil {
		t.Fatal(err)
	}
	cat.Queries.AddBase(types.Query{ID: "q_transit", Text: "How might we improve city transport?"})
	if err := cat.Domains.Add(types.Domain{
		ID:          "domain_urban",
		Name:        "Urban Mobility",
		Description: "the urban mobility domain",
		Keywords:    []string{"transit", "cycling", "zoning", "logistics"},
	}); err != nil {
		t.Fatal(err)
	}
	return cat
}

func singleCombo() types.Combination {
	return types.Combination{
		ID:         "backend_x_ins_expert_q_transit_domain_urban",
		BackendID:  "backend_x",
		TemplateID: "ins_expert",
		QueryID:    "q_transit",
		DomainID:   "domain_urban",
	}
}

func stateWithCombos(combos ...types.Combination) *RunState {
	state := NewRunState()
	state.SetWorkingSet(combos)
	return state
}

// --- simulation fallback ---

func TestExecuteSimulatesWithoutBackendConfig(t *testing.T) {
	var out strings.Builder
	exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{Workers: 1, Seed: 7}, &out)
	state := stateWithCombos(singleCombo())

	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.Executed != 1 || summary.Simulated != 1 || summary.Succeeded != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 1 executed, 1 simulated", summary)
	}

	res, ok := state.Results[singleCombo().ID]
	if !ok {
		t.Fatal("result not stored under combination id")
	}
	if res.Status != types.StatusFailedFallback {
		t.Errorf("Status = %q, want %q", res.Status, types.StatusFailedFallback)
	}
	if !res.Metadata.Simulated {
		t.Error("Metadata.Simulated = false, want true")
	}
	if res.Metadata.Error != "" {
		t.Errorf("Metadata.Error = %q, want empty for simulation", res.Metadata.Error)
	}
	if res.Metadata.Backend != "backend_x" {
		t.Errorf("Metadata.Backend = %q, want backend_x", res.Metadata.Backend)
	}
	if res.Metadata.Style != "analytical" {
		t.Errorf("Metadata.Style = %q, want analytical", res.Metadata.Style)
	}

	wantPrompt := "You are an expert in the urban mobility domain. Generate ideas.\n\nHow might we improve city transport?"
	if res.Prompt != wantPrompt {
		t.Errorf("Prompt = %q, want %q", res.Prompt, wantPrompt)
	}

	for _, fragment := range []string{
		"This is a simulated response from backend_x using the analytical approach.",
		"Domain: Urban Mobility",
		"The query was: How might we improve city transport?",
	} {
		if !strings.Contains(res.Response, fragment) {
			t.Errorf("Response missing %q:\n%s", fragment, res.Response)
		}
	}

	output := out.String()
	if !strings.Contains(output, "Executing combination 1/1: "+singleCombo().ID) {
		t.Errorf("output missing progress line:\n%s", output)
	}
	if !strings.Contains(output, "Executed 1 combinations") {
		t.Errorf("output missing completion line:\n%s", output)
	}
}

func TestExecuteForcedSimulation(t *testing.T) {
	backends := []types.Backend{{ID: "backend_x", Name: "claude-3-sonnet-20240229"}}
	cfg := types.ExploreConfig{Workers: 1, Seed: 7, Simulate: true}
	exec := NewExecutor(execCatalog(t), backends, cfg, nil)
	state := stateWithCombos(singleCombo())

	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.Simulated != 1 {
		t.Fatalf("summary = %+v, want 1 simulated", summary)
	}

	res := state.Results[singleCombo().ID]
	if !res.Metadata.Simulated {
		t.Error("Metadata.Simulated = false, want true")
	}
	// Forced simulation names the configured model, not the backend id.
	if !strings.Contains(res.Response, "from claude-3-sonnet-20240229") {
		t.Errorf("Response does not name the model:\n%s", res.Response)
	}
}

func TestExecuteSimulatesWhenProviderUnknown(t *testing.T) {
	backends := []types.Backend{{ID: "backend_x", Name: "mystery-model"}}
	exec := NewExecutor(execCatalog(t), backends, types.ExploreConfig{Workers: 1, Seed: 7}, nil)
	state := stateWithCombos(singleCombo())

	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.Simulated != 1 {
		t.Fatalf("summary = %+v, want 1 simulated", summary)
	}
	if !strings.Contains(state.Results[singleCombo().ID].Response, "from mystery-model") {
		t.Error("Response does not name the model")
	}
}

func TestExecuteSimulatesWhenCredentialMissing(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	backends := []types.Backend{{ID: "backend_x", Name: "claude-3-sonnet-20240229"}}
	exec := NewExecutor(execCatalog(t), backends, types.ExploreConfig{Workers: 1, Seed: 7}, nil)
	state := stateWithCombos(singleCombo())

	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.Simulated != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 1 simulated", summary)
	}
	if !state.Results[singleCombo().ID].Metadata.Simulated {
		t.Error("Metadata.Simulated = false, want true")
	}
}

// --- terminal failures ---

func TestExecuteTerminalOnDanglingReference(t *testing.T) {
	tests := []struct {
		name     string
		combo    types.Combination
		wantText string
	}{
		{
			"dangling template",
			types.Combination{ID: "c_template", BackendID: "backend_x", TemplateID: "ins_missing", QueryID: "q_transit", DomainID: "domain_urban"},
			`combination references unknown template "ins_missing"`,
		},
		{
			"dangling query",
			types.Combination{ID: "c_query", BackendID: "backend_x", TemplateID: "ins_expert", QueryID: "q_missing", DomainID: "domain_urban"},
			`combination references unknown query "q_missing"`,
		},
		{
			"dangling domain",
			types.Combination{ID: "c_domain", BackendID: "backend_x", TemplateID: "ins_expert", QueryID: "q_transit", DomainID: "domain_missing"},
			`combination references unknown domain "domain_missing"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{Workers: 1, Seed: 7}, nil)
			state := stateWithCombos(tt.combo)

			summary, err := exec.Execute(context.Background(), state, false)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if summary.Failed != 1 {
				t.Fatalf("summary = %+v, want 1 failed", summary)
			}
			if !summary.HasFailures() {
				t.Error("HasFailures() = false, want true")
			}

			res := state.Results[tt.combo.ID]
			if res.Status != types.StatusFailedTerminal {
				t.Errorf("Status = %q, want %q", res.Status, types.StatusFailedTerminal)
			}
			if res.Response != tt.wantText {
				t.Errorf("Response = %q, want %q", res.Response, tt.wantText)
			}
			if res.Metadata.Error != tt.wantText {
				t.Errorf("Metadata.Error = %q, want %q", res.Metadata.Error, tt.wantText)
			}
			if res.Prompt != "" {
				t.Errorf("Prompt = %q, want empty before rendering", res.Prompt)
			}
		})
	}
}

func TestExecuteTerminalOnMissingVariable(t *testing.T) {
	cat := execCatalog(t)
	if err := cat.Templates.Add(types.InstructionTemplate{
		ID:       "ins_constraint",
		Name:     "Constraint Frame",
		Text:     "Consider {domain} under {extra}.",
		Metadata: map[string]string{"cognitive_style": "structured"},
	}); err != nil {
		t.Fatal(err)
	}
	combo := types.Combination{
		ID:         "backend_x_ins_constraint_q_transit_domain_urban",
		BackendID:  "backend_x",
		TemplateID: "ins_constraint",
		QueryID:    "q_transit",
		DomainID:   "domain_urban",
	}

	exec := NewExecutor(cat, nil, types.ExploreConfig{Workers: 1, Seed: 7}, nil)
	state := stateWithCombos(combo)

	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 1 failed", summary)
	}

	res := state.Results[combo.ID]
	if res.Status != types.StatusFailedTerminal {
		t.Errorf("Status = %q, want %q", res.Status, types.StatusFailedTerminal)
	}
	if !strings.Contains(res.Response, `missing required variable "extra"`) {
		t.Errorf("Response does not name the missing variable: %q", res.Response)
	}
	if res.Prompt != "" {
		t.Errorf("Prompt = %q, want empty when rendering fails", res.Prompt)
	}
	if res.Metadata.Style != "structured" {
		t.Errorf("Metadata.Style = %q, want structured", res.Metadata.Style)
	}
}

// --- dry run and capping ---

func TestExecuteDryRun(t *testing.T) {
	combos := make([]types.Combination, 7)
	for i := range combos {
		combos[i] = types.Combination{ID: fmt.Sprintf("c%d", i+1)}
	}

	var out strings.Builder
	exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{Workers: 1, Seed: 7}, &out)
	state := stateWithCombos(combos...)

	summary, err := exec.Execute(context.Background(), state, true)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary != (Summary{}) {
		t.Errorf("summary = %+v, want zero", summary)
	}
	if len(state.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0 after dry run", len(state.Results))
	}

	output := out.String()
	for _, line := range []string{
		"Would execute 7 combinations\n",
		"1. Combination: c1\n",
		"5. Combination: c5\n",
		"... and 2 more\n",
	} {
		if !strings.Contains(output, line) {
			t.Errorf("output missing %q:\n%s", line, output)
		}
	}
	if strings.Contains(output, "6. Combination") {
		t.Errorf("output lists more than five combinations:\n%s", output)
	}
}

func TestExecuteCapsCombinations(t *testing.T) {
	combos := make([]types.Combination, 4)
	for i := range combos {
		combos[i] = types.Combination{
			ID:         fmt.Sprintf("c%d", i+1),
			BackendID:  "backend_x",
			TemplateID: "ins_expert",
			QueryID:    "q_transit",
			DomainID:   "domain_urban",
		}
	}

	var out strings.Builder
	cfg := types.ExploreConfig{Workers: 1, Seed: 7, MaxCombinations: 2}
	exec := NewExecutor(execCatalog(t), nil, cfg, &out)
	state := stateWithCombos(combos...)

	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.Executed != 2 {
		t.Errorf("Executed = %d, want 2", summary.Executed)
	}
	if len(state.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(state.Results))
	}
	for _, id := range []string{"c1", "c2"} {
		if _, ok := state.Results[id]; !ok {
			t.Errorf("Results missing %s (cap should keep working-set order)", id)
		}
	}
	if !strings.Contains(out.String(), "Limiting execution to 2 out of 4 combinations\n") {
		t.Errorf("output missing cap line:\n%s", out.String())
	}
}

// --- reruns and cancellation ---

func TestExecuteRerunOverwrites(t *testing.T) {
	exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{Workers: 1, Seed: 7}, nil)
	state := stateWithCombos(singleCombo())

	if _, err := exec.Execute(context.Background(), state, false); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	summary, err := exec.Execute(context.Background(), state, false)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	if summary.Executed != 1 {
		t.Errorf("Executed = %d, want 1", summary.Executed)
	}
	if len(state.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1 after rerun", len(state.Results))
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{Workers: 2, Seed: 7}, &out)
	state := stateWithCombos(singleCombo())

	summary, err := exec.Execute(ctx, state, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if summary.Executed != 0 {
		t.Errorf("Executed = %d, want 0", summary.Executed)
	}
	if len(state.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0", len(state.Results))
	}
	if !strings.Contains(out.String(), "Executed 0 combinations") {
		t.Errorf("output missing completion line:\n%s", out.String())
	}
}

// --- reproducibility ---

func TestExecuteReproducibleUnderSeed(t *testing.T) {
	run := func() map[string]string {
		combos := []types.Combination{singleCombo(), singleCombo()}
		combos[1].ID = "second_" + combos[1].ID

		exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{Workers: 1, Seed: 42}, nil)
		state := stateWithCombos(combos...)
		if _, err := exec.Execute(context.Background(), state, false); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		responses := make(map[string]string, len(state.Results))
		for id, res := range state.Results {
			responses[id] = res.Response
		}
		return responses
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for id, resp := range first {
		if second[id] != resp {
			t.Errorf("response for %s differs between seeded runs", id)
		}
	}
}

// --- construction and helpers ---

func TestNewExecutorDefaults(t *testing.T) {
	exec := NewExecutor(execCatalog(t), nil, types.ExploreConfig{}, nil)
	if exec.Config.Workers != 4 {
		t.Errorf("Workers = %d, want 4", exec.Config.Workers)
	}
	if exec.Config.RequestsPerSecond != 5 {
		t.Errorf("RequestsPerSecond = %v, want 5", exec.Config.RequestsPerSecond)
	}
	if exec.Rand() == nil {
		t.Error("Rand() = nil")
	}
}

func TestBackendParams(t *testing.T) {
	t.Run("model injected from name", func(t *testing.T) {
		b := types.Backend{Name: "claude-3-opus", Parameters: map[string]any{"temperature": 0.9}}
		params, model := backendParams(b)
		if model != "claude-3-opus" {
			t.Errorf("model = %q, want claude-3-opus", model)
		}
		if params["model"] != "claude-3-opus" {
			t.Errorf(`params["model"] = %v, want claude-3-opus`, params["model"])
		}
		if params["temperature"] != 0.9 {
			t.Errorf(`params["temperature"] = %v, want 0.9`, params["temperature"])
		}
		if _, ok := b.Parameters["model"]; ok {
			t.Error("backendParams mutated the config's parameter map")
		}
	})

	t.Run("explicit model parameter wins", func(t *testing.T) {
		b := types.Backend{Name: "claude-3-opus", Parameters: map[string]any{"model": "gpt-4o"}}
		params, model := backendParams(b)
		if model != "gpt-4o" {
			t.Errorf("model = %q, want gpt-4o", model)
		}
		if params["model"] != "gpt-4o" {
			t.Errorf(`params["model"] = %v, want gpt-4o`, params["model"])
		}
	})
}

func TestErrorResultShape(t *testing.T) {
	res := errorResult(singleCombo(), "the prompt", "analytical", errors.New("boom"), 1500*time.Millisecond)

	if res.Status != types.StatusFailedFallback {
		t.Errorf("Status = %q, want %q", res.Status, types.StatusFailedFallback)
	}
	if res.Response != "Error generating response: boom" {
		t.Errorf("Response = %q", res.Response)
	}
	if res.Metadata.Error != "boom" {
		t.Errorf("Metadata.Error = %q, want boom", res.Metadata.Error)
	}
	if res.Metadata.DurationSeconds != 1.5 {
		t.Errorf("DurationSeconds = %v, want 1.5", res.Metadata.DurationSeconds)
	}
	if res.Metadata.Simulated {
		t.Error("Metadata.Simulated = true, want false for recorded errors")
	}
	if res.Prompt != "the prompt" {
		t.Errorf("Prompt = %q, want the prompt", res.Prompt)
	}
}

func TestTerminalResultShape(t *testing.T) {
	err := &UnresolvedReferenceError{Kind: "domain", ID: "domain_gone"}
	res := terminalResult(singleCombo(), "", "analytical", err)

	if res.Status != types.StatusFailedTerminal {
		t.Errorf("Status = %q, want %q", res.Status, types.StatusFailedTerminal)
	}
	if res.Response != `combination references unknown domain "domain_gone"` {
		t.Errorf("Response = %q", res.Response)
	}
	if res.Metadata.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %v, want 0", res.Metadata.DurationSeconds)
	}
}

func TestSummaryHasFailures(t *testing.T) {
	if (Summary{Executed: 3, Succeeded: 2, Simulated: 1}).HasFailures() {
		t.Error("HasFailures() = true for summary without failures")
	}
	if !(Summary{Executed: 3, Failed: 1}).HasFailures() {
		t.Error("HasFailures() = false for summary with failures")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/pkg/types"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// --- criteria ---

func TestCriteriaBounds(t *testing.T) {
	texts := map[string]string{
		"empty":      "",
		"one word":   "idea",
		"repetitive": strings.Repeat("same ", 300),
		"structured": "# Ideas\n\n- first point\n- second point\n\nA closing paragraph with several words in it.",
		"prose":      "This is a response. It has a few sentences of moderate length. Each one contributes to the overall flow.",
	}
	for _, criterion := range []Criterion{noveltyCriterion{}, depthCriterion{}, clarityCriterion{}, structureCriterion{}} {
		for label, text := range texts {
			got := criterion.Evaluate(text)
			if got < 0 || got > 1 {
				t.Errorf("%s.Evaluate(%s) = %v, want within [0, 1]", criterion.Name(), label, got)
			}
		}
	}
}

func TestNovelty(t *testing.T) {
	c := noveltyCriterion{}
	if got := c.Evaluate("alpha beta gamma"); !almostEqual(got, 1) {
		t.Errorf("Evaluate(distinct words) = %v, want 1", got)
	}
	if got := c.Evaluate("alpha alpha alpha"); !almostEqual(got, 1.0/3.0) {
		t.Errorf("Evaluate(repeated word) = %v, want 1/3", got)
	}
	if got := c.Evaluate("Alpha, alpha! ALPHA."); !almostEqual(got, 1.0/3.0) {
		t.Errorf("Evaluate(case and punctuation variants) = %v, want 1/3", got)
	}
	if got := c.Evaluate(""); got != 0 {
		t.Errorf("Evaluate(empty) = %v, want 0", got)
	}
}

func TestDepth(t *testing.T) {
	c := depthCriterion{}
	if got := c.Evaluate(""); got != 0 {
		t.Errorf("Evaluate(empty) = %v, want 0", got)
	}
	if got := c.Evaluate(strings.Repeat("word ", 50)); !almostEqual(got, 0.25) {
		t.Errorf("Evaluate(50 words) = %v, want 0.25", got)
	}
	if got := c.Evaluate(strings.Repeat("word ", 400)); got != 1 {
		t.Errorf("Evaluate(400 words) = %v, want 1 (saturated)", got)
	}
}

func TestClarity(t *testing.T) {
	c := clarityCriterion{}

	ideal := strings.TrimSpace(strings.Repeat("word ", 18)) + "."
	if got := c.Evaluate(ideal); !almostEqual(got, 1) {
		t.Errorf("Evaluate(18-word sentence) = %v, want 1", got)
	}

	rambling := strings.TrimSpace(strings.Repeat("word ", 36)) + "."
	if got := c.Evaluate(rambling); !almostEqual(got, 0) {
		t.Errorf("Evaluate(36-word sentence) = %v, want 0", got)
	}

	if got := c.Evaluate(""); got != 0 {
		t.Errorf("Evaluate(empty) = %v, want 0", got)
	}
}

func TestStructure(t *testing.T) {
	c := structureCriterion{}

	if got := c.Evaluate("- a\n- b\n- c"); got != 1 {
		t.Errorf("Evaluate(all list items) = %v, want 1 (capped)", got)
	}
	if got := c.Evaluate("a single flat line"); got != 0 {
		t.Errorf("Evaluate(flat line) = %v, want 0", got)
	}
	if got := c.Evaluate("first paragraph\n\nsecond paragraph"); !almostEqual(got, 0.5) {
		t.Errorf("Evaluate(two paragraphs) = %v, want 0.5", got)
	}
	if got := c.Evaluate("1. first\n2) second"); !almostEqual(got, 1) {
		t.Errorf("Evaluate(numbered items) = %v, want 1", got)
	}
}

// --- framework ---

type stubCriterion struct {
	name  string
	value float64
}

func (s stubCriterion) Name() string { return s.name }

func (s stubCriterion) Evaluate(text string) float64 { return s.value }

func TestDefaultNames(t *testing.T) {
	got := Default().Names()
	want := []string{"novelty", "depth", "clarity", "structure"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScoreTextCoversAllCriteria(t *testing.T) {
	scores := Default().ScoreText("A response.\n\n- with a list\n- of two items")
	for _, name := range []string{"novelty", "depth", "clarity", "structure"} {
		v, ok := scores[name]
		if !ok {
			t.Errorf("ScoreText() missing %q", name)
			continue
		}
		if v < 0 || v > 1 {
			t.Errorf("ScoreText()[%q] = %v, want within [0, 1]", name, v)
		}
	}
}

func TestWeightedScore(t *testing.T) {
	f := Default()

	tests := []struct {
		name   string
		scores map[string]float64
		want   float64
	}{
		{"full set of ones", map[string]float64{"novelty": 1, "depth": 1, "clarity": 1, "structure": 1}, 1},
		{"filtered subset", map[string]float64{"novelty": 1, "depth": 0.5}, (0.3*1 + 0.25*0.5) / 0.55},
		{"single criterion", map[string]float64{"clarity": 0.6}, 0.6},
		{"empty", map[string]float64{}, 0},
		{"only unregistered entries", map[string]float64{"overall": 0.9}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.WeightedScore(tt.scores); !almostEqual(got, tt.want) {
				t.Errorf("WeightedScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegisterReplaces(t *testing.T) {
	f := Default()
	f.Register(stubCriterion{name: "novelty", value: 0.9}, 0.5)

	names := f.Names()
	if len(names) != 4 {
		t.Fatalf("len(Names()) = %d, want 4 after replacement", len(names))
	}
	if names[0] != "novelty" {
		t.Errorf("Names()[0] = %q, want novelty to keep its position", names[0])
	}
	if got := f.ScoreText("anything")["novelty"]; got != 0.9 {
		t.Errorf("replaced criterion score = %v, want 0.9", got)
	}
	if got := f.WeightedScore(map[string]float64{"novelty": 1}); !almostEqual(got, 1) {
		t.Errorf("WeightedScore() = %v, want 1 under replaced weight", got)
	}
}

// --- evaluation ---

func TestEvaluateResultsEmpty(t *testing.T) {
	state := explore.NewRunState()
	got := Default().EvaluateResults(state, nil)
	if len(got) != 0 {
		t.Errorf("EvaluateResults() = %d entries, want 0", len(got))
	}
	if len(state.Evaluations) != 0 {
		t.Errorf("state.Evaluations = %d entries, want 0", len(state.Evaluations))
	}
}

func TestEvaluateResultsUpserts(t *testing.T) {
	state := explore.NewRunState()
	state.UpsertResult(types.Result{CombinationID: "c1", Response: "A short response about transit.", Status: types.StatusSucceeded})
	state.UpsertResult(types.Result{CombinationID: "c2", Response: "- idea one\n- idea two\n\nA structured response.", Status: types.StatusSucceeded})

	got := Default().EvaluateResults(state, nil)
	if len(got) != 2 {
		t.Fatalf("EvaluateResults() = %d entries, want 2", len(got))
	}
	for id, eval := range got {
		if len(eval) != 5 {
			t.Errorf("evaluation %s has %d entries, want 5 (four criteria plus overall)", id, len(eval))
		}
		overall, ok := eval["overall"]
		if !ok {
			t.Errorf("evaluation %s missing overall", id)
		}
		if overall < 0 || overall > 1 {
			t.Errorf("overall for %s = %v, want within [0, 1]", id, overall)
		}
		stored, ok := state.Evaluations[id]
		if !ok {
			t.Errorf("evaluation %s not upserted into state", id)
			continue
		}
		if stored["overall"] != overall {
			t.Errorf("stored overall = %v, returned %v", stored["overall"], overall)
		}
	}
}

func TestEvaluateResultsFiltered(t *testing.T) {
	state := explore.NewRunState()
	state.UpsertResult(types.Result{CombinationID: "c1", Response: "alpha beta gamma delta", Status: types.StatusSucceeded})

	got := Default().EvaluateResults(state, []string{"novelty"})
	eval := got["c1"]
	if len(eval) != 2 {
		t.Fatalf("filtered evaluation has %d entries, want 2 (novelty, overall)", len(eval))
	}
	if _, ok := eval["novelty"]; !ok {
		t.Fatal("filtered evaluation missing novelty")
	}
	// With a single criterion the weighted mean collapses to that score.
	if !almostEqual(eval["overall"], eval["novelty"]) {
		t.Errorf("overall = %v, want %v (novelty alone)", eval["overall"], eval["novelty"])
	}
}

func TestEvaluateResultsUnknownFilter(t *testing.T) {
	state := explore.NewRunState()
	state.UpsertResult(types.Result{CombinationID: "c1", Response: "some text", Status: types.StatusSucceeded})

	got := Default().EvaluateResults(state, []string{"bogus"})
	eval := got["c1"]
	if len(eval) != 1 {
		t.Fatalf("evaluation has %d entries, want 1 (overall only)", len(eval))
	}
	if eval["overall"] != 0 {
		t.Errorf("overall = %v, want 0 when every criterion is filtered away", eval["overall"])
	}
}

// --- ranking ---

func rankedState() *explore.RunState {
	state := explore.NewRunState()
	state.SetWorkingSet([]types.Combination{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"}})
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		state.UpsertResult(types.Result{CombinationID: id, Response: "response " + id, Status: types.StatusSucceeded})
	}
	state.UpsertEvaluation("c1", types.Evaluation{"overall": 0.9})
	state.UpsertEvaluation("c2", types.Evaluation{"overall": 0.5})
	state.UpsertEvaluation("c3", types.Evaluation{"overall": 0.9})
	state.UpsertEvaluation("c4", types.Evaluation{"novelty": 0.4})
	return state
}

func TestTopN(t *testing.T) {
	state := rankedState()

	got := TopN(state, "overall", 2)
	if len(got) != 2 {
		t.Fatalf("len(TopN(2)) = %d, want 2", len(got))
	}
	// c1 and c3 tie at 0.9; working-set order breaks the tie.
	if got[0].CombinationID != "c1" || got[1].CombinationID != "c3" {
		t.Errorf("TopN(2) = [%s %s], want [c1 c3]", got[0].CombinationID, got[1].CombinationID)
	}
}

func TestTopNExcludesMissingCriterion(t *testing.T) {
	state := rankedState()

	got := TopN(state, "overall", 10)
	if len(got) != 3 {
		t.Fatalf("len(TopN(10)) = %d, want 3 (c4 lacks the criterion)", len(got))
	}
	for _, r := range got {
		if _, ok := state.Evaluations[r.CombinationID]["overall"]; !ok {
			t.Errorf("TopN returned %s without the ranking criterion", r.CombinationID)
		}
	}
}

func TestTopNZero(t *testing.T) {
	if got := TopN(rankedState(), "overall", 0); len(got) != 0 {
		t.Errorf("len(TopN(0)) = %d, want 0", len(got))
	}
}

func TestTopNSkipsEvaluationsWithoutResults(t *testing.T) {
	state := rankedState()
	state.UpsertEvaluation("c_orphan", types.Evaluation{"overall": 1.0})

	for _, r := range TopN(state, "overall", 10) {
		if r.CombinationID == "c_orphan" {
			t.Error("TopN returned an evaluation with no stored result")
		}
	}
}

func TestTopNStrayTieOrder(t *testing.T) {
	state := explore.NewRunState()
	for _, id := range []string{"c_b", "c_a"} {
		state.UpsertResult(types.Result{CombinationID: id, Response: "text", Status: types.StatusSucceeded})
		state.UpsertEvaluation(id, types.Evaluation{"overall": 0.5})
	}

	got := TopN(state, "overall", 10)
	if len(got) != 2 {
		t.Fatalf("len(TopN) = %d, want 2", len(got))
	}
	// Neither id is in the working set; ties fall back to id order.
	if got[0].CombinationID != "c_a" || got[1].CombinationID != "c_b" {
		t.Errorf("TopN = [%s %s], want [c_a c_b]", got[0].CombinationID, got[1].CombinationID)
	}
}

func TestAverageScore(t *testing.T) {
	if got := AverageScore(nil); got != 0 {
		t.Errorf("AverageScore(nil) = %v, want 0", got)
	}
	ranked := []ScoredResult{{Score: 0.5}, {Score: 1.0}}
	if got := AverageScore(ranked); !almostEqual(got, 0.75) {
		t.Errorf("AverageScore() = %v, want 0.75", got)
	}
}

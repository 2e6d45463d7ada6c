// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score evaluates generated responses against a pluggable set of
// weighted criteria and ranks stored results by any criterion.
package score

import (
	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// Criterion scores one aspect of a response text on a 0..1 scale. The
// framework treats criteria as opaque; what each one measures is its own
// business.
type Criterion interface {
	Name() string
	Evaluate(text string) float64
}

// Framework holds registered criteria and their weights in registration
// order, so repeated scoring passes visit criteria deterministically.
type Framework struct {
	criteria []Criterion
	weights  map[string]float64
}

// NewFramework returns an empty scoring framework.
func NewFramework() *Framework {
	return &Framework{weights: make(map[string]float64)}
}

// Register adds a criterion with the given weight. Registering a name again
// replaces the earlier criterion and weight in place.
func (f *Framework) Register(c Criterion, weight float64) {
	name := c.Name()
	if _, ok := f.weights[name]; ok {
		for i, existing := range f.criteria {
			if existing.Name() == name {
				f.criteria[i] = c
				break
			}
		}
	} else {
		f.criteria = append(f.criteria, c)
	}
	f.weights[name] = weight
}

// Names returns the registered criterion names in registration order.
func (f *Framework) Names() []string {
	names := make([]string, len(f.criteria))
	for i, c := range f.criteria {
		names[i] = c.Name()
	}
	return names
}

// ScoreText runs every registered criterion against the text.
func (f *Framework) ScoreText(text string) map[string]float64 {
	scores := make(map[string]float64, len(f.criteria))
	for _, c := range f.criteria {
		scores[c.Name()] = c.Evaluate(text)
	}
	return scores
}

// WeightedScore combines per-criterion scores into one scalar: the
// weight-normalized mean over exactly the entries present in scores.
// Callers that filter criteria before calling therefore change what the
// aggregate means. Entries with no registered criterion are ignored.
func (f *Framework) WeightedScore(scores map[string]float64) float64 {
	var weighted, total float64
	for _, c := range f.criteria {
		name := c.Name()
		s, ok := scores[name]
		if !ok {
			continue
		}
		w := f.weights[name]
		weighted += s * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// EvaluateResults scores every stored result's response and upserts one
// evaluation per combination id into the state. When criteria names are
// given, the evaluation keeps only those criteria, and the synthesized
// "overall" entry is computed over the filtered set. An empty result set
// returns an empty map without error.
func (f *Framework) EvaluateResults(state *explore.RunState, criteria []string) map[string]types.Evaluation {
	evaluations := make(map[string]types.Evaluation, len(state.Results))
	for id, result := range state.Results {
		scores := f.ScoreText(result.Response)
		if len(criteria) > 0 {
			filtered := make(map[string]float64, len(criteria))
			for _, name := range criteria {
				if s, ok := scores[name]; ok {
					filtered[name] = s
				}
			}
			scores = filtered
		}
		scores["overall"] = f.WeightedScore(scores)

		eval := types.Evaluation(scores)
		state.UpsertEvaluation(id, eval)
		evaluations[id] = eval
	}
	return evaluations
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"sort"

	"github.com/pdiddy/idea-engine/internal/explore"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// ScoredResult pairs a stored result with its score under one ranking
// criterion.
type ScoredResult struct {
	CombinationID string
	Result        types.Result
	Score         float64
}

// TopN returns the n highest-scoring results under the named criterion.
// Only results whose evaluation contains the criterion participate. The
// order is deterministic: descending by score, ties broken by working-set
// position, with combinations outside the working set following in id
// order. Non-positive n yields no results.
func TopN(state *explore.RunState, criterion string, n int) []ScoredResult {
	position := make(map[string]int, len(state.Combinations))
	for i, c := range state.Combinations {
		position[c.ID] = i
	}

	var ranked []ScoredResult
	for id, eval := range state.Evaluations {
		value, ok := eval[criterion]
		if !ok {
			continue
		}
		result, ok := state.Results[id]
		if !ok {
			continue
		}
		ranked = append(ranked, ScoredResult{CombinationID: id, Result: result, Score: value})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return rankBefore(ranked[i].CombinationID, ranked[j].CombinationID, position)
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// rankBefore orders tied combination ids: working-set members first in set
// order, then everything else by id.
func rankBefore(a, b string, position map[string]int) bool {
	ia, aok := position[a]
	ib, bok := position[b]
	switch {
	case aok && bok:
		return ia < ib
	case aok:
		return true
	case bok:
		return false
	default:
		return a < b
	}
}

// AverageScore returns the mean score of the ranked results, or zero for
// an empty list.
func AverageScore(ranked []ScoredResult) float64 {
	if len(ranked) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ranked {
		sum += r.Score
	}
	return sum / float64(len(ranked))
}

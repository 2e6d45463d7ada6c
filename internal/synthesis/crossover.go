// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"fmt"

	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// CrossPollination is the "cross_pollination" synthesizer: a single idea
// spanning every supplied result.
type CrossPollination struct{}

// Name implements Synthesizer.
func (CrossPollination) Name() string { return "cross_pollination" }

// Synthesize produces exactly one idea covering all ranked results, or
// none for an empty input.
func (CrossPollination) Synthesize(ranked []score.ScoredResult) []types.Idea {
	if len(ranked) == 0 {
		return nil
	}

	sources := make([]string, len(ranked))
	for i, r := range ranked {
		sources[i] = r.CombinationID
	}

	return []types.Idea{{
		ID:                 newIdeaID(),
		Title:              "Cross-Pollinated Innovation",
		Description:        fmt.Sprintf("This idea combines elements from %d diverse top-ranked responses.", len(ranked)),
		Text:               "Cross-pollinated text would extract complementary elements from different responses and combine them in novel ways.",
		SourceCombinations: sources,
		Metadata: types.IdeaMetadata{
			Method:       "cross_pollination",
			SourcesCount: len(ranked),
			AverageScore: score.AverageScore(ranked),
		},
	}}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"fmt"
	"strings"

	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// IndexPartition is the "cluster_based" synthesizer. It partitions the
// ranked list into three contiguous groups by index position and produces
// one idea per non-empty group.
type IndexPartition struct{}

// Name implements Synthesizer.
func (IndexPartition) Name() string { return "cluster_based" }

// Synthesize groups the ranked results into contiguous thirds, skipping
// empty groups. Each idea takes its title and text from the group's
// first response and carries the group's members as provenance.
func (IndexPartition) Synthesize(ranked []score.ScoredResult) []types.Idea {
	if len(ranked) == 0 {
		return nil
	}

	third := len(ranked) / 3
	groups := [][]score.ScoredResult{
		ranked[:third],
		ranked[third : 2*third],
		ranked[2*third:],
	}

	var ideas []types.Idea
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		clusterID := i + 1

		sources := make([]string, len(group))
		for j, r := range group {
			sources[j] = r.CombinationID
		}

		idea := types.Idea{
			ID:                 newIdeaID(),
			Description:        fmt.Sprintf("This idea represents a synthesis of %d top-ranked responses.", len(group)),
			SourceCombinations: sources,
			Metadata: types.IdeaMetadata{
				Method:       "cluster_based",
				ClusterID:    clusterID,
				ClusterSize:  len(group),
				AverageScore: score.AverageScore(group),
			},
		}

		if first := group[0].Result.Response; first != "" {
			idea.Title = titleFromText(first, clusterID)
			idea.Text = first
		} else {
			idea.Title = fmt.Sprintf("Synthesized Idea %d", clusterID)
			idea.Text = fmt.Sprintf("Synthesized text would extract the common themes and innovative elements from cluster %d.", clusterID)
		}

		ideas = append(ideas, idea)
	}
	return ideas
}

// titleFromText returns the first line of plausible title length, falling
// back to a numbered placeholder.
func titleFromText(text string, clusterID int) string {
	for _, line := range strings.Split(text, "\n") {
		if len(line) > 5 && len(line) < 80 {
			return line
		}
	}
	return fmt.Sprintf("Synthesized Idea %d", clusterID)
}

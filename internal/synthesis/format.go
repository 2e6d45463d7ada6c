// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Format renders the idea collection as "markdown", "text", or "json".
// Ideas are emitted in sorted-id order so output is stable across runs.
// An unrecognized format name is an error.
func Format(ideas map[string]types.Idea, format string) (string, error) {
	if len(ideas) == 0 {
		return "No synthesized ideas to format", nil
	}

	ids := make([]string, 0, len(ideas))
	for id := range ideas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	switch format {
	case "markdown":
		return formatMarkdown(ideas, ids), nil
	case "text":
		return formatText(ideas, ids), nil
	case "json":
		data, err := json.MarshalIndent(ideas, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling ideas: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func formatMarkdown(ideas map[string]types.Idea, ids []string) string {
	var b strings.Builder
	b.WriteString("# Synthesized Ideas\n\n")

	for _, id := range ids {
		idea := ideas[id]
		fmt.Fprintf(&b, "## %s\n\n", idea.Title)
		fmt.Fprintf(&b, "%s\n\n", idea.Description)
		b.WriteString("### Key Points\n\n")
		fmt.Fprintf(&b, "%s\n\n", idea.Text)
		b.WriteString("### Metadata\n\n")
		for _, bullet := range metadataBullets(idea.Metadata) {
			b.WriteString(bullet + "\n")
		}
		b.WriteString("\n---\n\n")
	}
	return b.String()
}

func formatText(ideas map[string]types.Idea, ids []string) string {
	var b strings.Builder
	b.WriteString("Synthesized Ideas\n")
	b.WriteString(strings.Repeat("=", len("Synthesized Ideas")))
	b.WriteString("\n\n")

	for i, id := range ids {
		idea := ideas[id]
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, idea.Title)
		fmt.Fprintf(&b, "%s\n\n", idea.Description)
		fmt.Fprintf(&b, "%s\n\n", idea.Text)
		fmt.Fprintf(&b, "Method: %s\n", idea.Metadata.Method)
		fmt.Fprintf(&b, "Average score: %.2f\n", idea.Metadata.AverageScore)
		fmt.Fprintf(&b, "Sources: %s\n\n", strings.Join(idea.SourceCombinations, ", "))
	}
	return b.String()
}

// metadataBullets lists the populated metadata fields in a fixed order.
func metadataBullets(m types.IdeaMetadata) []string {
	bullets := []string{fmt.Sprintf("- **method**: %s", m.Method)}
	if m.ClusterID > 0 {
		bullets = append(bullets, fmt.Sprintf("- **cluster_id**: %d", m.ClusterID))
	}
	if m.ClusterSize > 0 {
		bullets = append(bullets, fmt.Sprintf("- **cluster_size**: %d", m.ClusterSize))
	}
	if m.SourcesCount > 0 {
		bullets = append(bullets, fmt.Sprintf("- **sources_count**: %d", m.SourcesCount))
	}
	bullets = append(bullets, fmt.Sprintf("- **average_score**: %v", m.AverageScore))
	return bullets
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis condenses top-ranked results into a small set of
// representative ideas. Synthesizers are deliberately simple placeholders
// for real language-aware fusion: they group by rank position, not by
// semantic similarity, and can be swapped out behind the Synthesizer
// interface without touching the stages upstream.
package synthesis

import (
	"github.com/google/uuid"

	"github.com/pdiddy/idea-engine/internal/score"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// Synthesizer produces ideas from a ranked result list. Implementations
// return fresh idea ids on every invocation so repeated runs accumulate
// instead of replacing earlier ideas.
type Synthesizer interface {
	Name() string
	Synthesize(ranked []score.ScoredResult) []types.Idea
}

var synthesizers = []Synthesizer{IndexPartition{}, CrossPollination{}}

// For returns the synthesizer registered under the given method name, or
// nil when the name is unknown. Callers treat an unknown method as a
// logged no-op rather than an error.
func For(method string) Synthesizer {
	for _, s := range synthesizers {
		if s.Name() == method {
			return s
		}
	}
	return nil
}

// Methods returns the available synthesis method names.
func Methods() []string {
	names := make([]string, len(synthesizers))
	for i, s := range synthesizers {
		names[i] = s.Name()
	}
	return names
}

func newIdeaID() string {
	return "idea_" + uuid.NewString()[:8]
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// simulatedIdeaCount is the number of placeholder ideas in a simulated
// response.
const simulatedIdeaCount = 3

// Simulated fabricates responses locally instead of calling a provider. The
// executor falls back to it when a real backend fails, and uses it for every
// combination when simulation is forced.
type Simulated struct {
	model  string
	style  string
	domain types.Domain
	query  types.Query
	rng    *rand.Rand
}

// NewSimulated returns a generator for one combination's context. A nil rng
// is replaced with a time-seeded one.
func NewSimulated(model, style string, domain types.Domain, query types.Query, rng *rand.Rand) *Simulated {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulated{model: model, style: style, domain: domain, query: query, rng: rng}
}

func (s *Simulated) Name() string { return "simulated" }

// Generate ignores the prompt and produces a response shaped like a real
// backend's idea list, drawing keywords from the combination's domain.
func (s *Simulated) Generate(_ context.Context, _ string, _ map[string]any) (string, error) {
	parts := []string{
		fmt.Sprintf("This is a simulated response from %s using the %s approach.", s.model, s.style),
		fmt.Sprintf("Domain: %s", s.domain.Name),
		fmt.Sprintf("The query was: %s", s.query.Text),
		"Here are some ideas that address this challenge:",
	}
	for i := 1; i <= simulatedIdeaCount; i++ {
		if len(s.domain.Keywords) > 0 {
			keyword := s.domain.Keywords[s.rng.Intn(len(s.domain.Keywords))]
			parts = append(parts, fmt.Sprintf("Idea %d: A solution involving %s that addresses the core challenge.", i, keyword))
		} else {
			parts = append(parts, fmt.Sprintf("Idea %d: A novel approach to solving this problem.", i))
		}
	}
	parts = append(parts, fmt.Sprintf("These ideas represent a %s approach to the problem within the %s domain.", s.style, s.domain.Name))
	return strings.Join(parts, "\n\n"), nil
}

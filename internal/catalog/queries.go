// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// UnknownQueryError reports a query id that resolves to neither a base query
// nor a generated variant.
type UnknownQueryError struct {
	ID string
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("no query with id %q", e.ID)
}

// variantAttemptsFactor bounds variant generation. Strategies are drawn at
// random and duplicate texts discarded, so allow a few misses per requested
// variant before giving up.
const variantAttemptsFactor = 3

// Queries holds base queries and the variants derived from them. Variants
// are structurally identical to base queries; lookups cover both.
type Queries struct {
	base      map[string]types.Query
	baseOrder []string
	variants  map[string][]types.Query
}

// NewQueries returns an empty query registry.
func NewQueries() *Queries {
	return &Queries{
		base:     make(map[string]types.Query),
		variants: make(map[string][]types.Query),
	}
}

// AddBase registers a base query, replacing any previous query with the
// same id.
func (q *Queries) AddBase(query types.Query) {
	if _, ok := q.base[query.ID]; !ok {
		q.baseOrder = append(q.baseOrder, query.ID)
	}
	q.base[query.ID] = query
}

// Get returns the query with the given id, checking base queries first and
// then generated variants.
func (q *Queries) Get(id string) (types.Query, error) {
	if query, ok := q.base[id]; ok {
		return query, nil
	}
	for _, vars := range q.variants {
		for _, v := range vars {
			if v.ID == id {
				return v, nil
			}
		}
	}
	return types.Query{}, &UnknownQueryError{ID: id}
}

// ListBase returns the base queries in registration order.
func (q *Queries) ListBase() []types.Query {
	out := make([]types.Query, 0, len(q.baseOrder))
	for _, id := range q.baseOrder {
		out = append(out, q.base[id])
	}
	return out
}

// All returns every base query followed by every generated variant.
func (q *Queries) All() []types.Query {
	out := q.ListBase()
	for _, id := range q.baseOrder {
		out = append(out, q.variants[id]...)
	}
	return out
}

// GenerateVariants derives count variants of the base query using randomly
// chosen variation strategies, deduplicating by text. The variants are
// registered and returned. Fails with UnknownQueryError if the base id does
// not resolve.
func (q *Queries) GenerateVariants(id string, count int, rng *rand.Rand) ([]types.Query, error) {
	base, ok := q.base[id]
	if !ok {
		return nil, &UnknownQueryError{ID: id}
	}
	if count <= 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var variants []types.Query
	for attempts := 0; len(variants) < count && attempts < count*variantAttemptsFactor; attempts++ {
		strategy := variationStrategies[rng.Intn(len(variationStrategies))]
		text, extraKey, extraVal := strategy.apply(base, rng)
		if seen[text] {
			continue
		}
		seen[text] = true

		vars := make(map[string]string, len(base.Variables)+1)
		for k, v := range base.Variables {
			vars[k] = v
		}
		if extraKey != "" {
			vars[extraKey] = extraVal
		}
		variants = append(variants, types.Query{
			ID:        fmt.Sprintf("%s_%s_%s", base.ID, strategy.name, randHex(rng, 8)),
			Text:      text,
			Variables: vars,
		})
	}

	q.variants[id] = append(q.variants[id], variants...)
	return variants, nil
}

// randHex returns n lowercase hex digits drawn from rng. Variant ids use
// this rather than a UUID so a seeded run reproduces identical ids.
func randHex(rng *rand.Rand, n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[rng.Intn(len(digits))]
	}
	return string(b)
}

// variationStrategy derives one variant text from a base query, optionally
// contributing an extra template variable.
type variationStrategy struct {
	name  string
	apply func(base types.Query, rng *rand.Rand) (text, extraKey, extraVal string)
}

var variationStrategies = []variationStrategy{
	{name: "constraint", apply: addConstraint},
	{name: "perspective", apply: changePerspective},
	{name: "context", apply: addContext},
	{name: "rephrased", apply: rephraseQuestion},
	{name: "aspect", apply: focusOnAspect},
	{name: "approach", apply: alternativeApproach},
}

var queryConstraints = []string{
	"with limited resources",
	"within a tight budget",
	"in a short timeframe",
	"with minimal technological infrastructure",
	"without requiring specialized expertise",
	"while ensuring accessibility for all users",
	"while minimizing environmental impact",
	"while adhering to strict regulatory requirements",
	"in a way that can be incrementally implemented",
	"without disrupting existing systems",
}

var queryPerspectives = []string{
	"from the perspective of end users",
	"from a sustainability standpoint",
	"from a business efficiency perspective",
	"for developing countries",
	"for rural communities",
	"for elderly populations",
	"for people with disabilities",
	"for young professionals",
	"for educational institutions",
	"for government agencies",
}

var queryContexts = []string{
	"in the context of rapid urbanization",
	"given the rise of remote work",
	"in the era of climate change",
	"with increasing automation",
	"in light of changing demographics",
	"amidst economic uncertainty",
	"in response to public health challenges",
	"with the rise of data-driven decision making",
	"in societies with aging populations",
	"in regions with rapid technological adoption",
}

var queryAspects = []string{
	"the technological aspects of",
	"the social implications of",
	"the economic viability of",
	"the implementation challenges in",
	"the user adoption factors for",
	"the long-term sustainability of",
	"the scalability considerations for",
	"the ethical dimensions of",
	"the educational requirements for",
	"the policy implications of",
}

var queryApproaches = []string{
	"Instead of conventional solutions, how might we",
	"What if we considered a bottom-up approach to",
	"How could emerging technologies enable us to",
	"What would a nature-inspired solution look like for",
	"How might we leverage collective intelligence to",
	"What cross-industry insights could be applied to",
	"How could behavioral science principles help us",
	"What would a minimalist approach look like for",
	"How might we use gamification to address",
	"What if we focused on prevention rather than solution for",
}

func addConstraint(base types.Query, rng *rand.Rand) (string, string, string) {
	constraint := queryConstraints[rng.Intn(len(queryConstraints))]
	text := fmt.Sprintf("%s, %s?", strings.TrimSuffix(base.Text, "?"), constraint)
	return text, "constraint", constraint
}

func changePerspective(base types.Query, rng *rand.Rand) (string, string, string) {
	perspective := queryPerspectives[rng.Intn(len(queryPerspectives))]
	text := fmt.Sprintf("%s, considering it %s?", strings.TrimSuffix(base.Text, "?"), perspective)
	return text, "perspective", perspective
}

func addContext(base types.Query, rng *rand.Rand) (string, string, string) {
	context := queryContexts[rng.Intn(len(queryContexts))]
	text := fmt.Sprintf("%s, %s?", strings.TrimSuffix(base.Text, "?"), context)
	return text, "context", context
}

func rephraseQuestion(base types.Query, _ *rand.Rand) (string, string, string) {
	text := strings.ToLower(base.Text)

	var rephrased string
	switch {
	case strings.HasPrefix(text, "how might we"):
		rephrased = strings.Replace(text, "how might we", "what are effective ways to", 1)
	case strings.HasPrefix(text, "what are"):
		rephrased = strings.Replace(text, "what are", "how might we identify", 1)
	case strings.HasPrefix(text, "how can"):
		rephrased = strings.Replace(text, "how can", "what strategies would allow us to", 1)
	case strings.HasPrefix(text, "what strategies"):
		rephrased = strings.Replace(text, "what strategies", "how might we develop approaches to", 1)
	default:
		rephrased = fmt.Sprintf("What innovative approaches could address the challenge of %s?", strings.TrimSuffix(text, "?"))
	}

	if !strings.HasSuffix(rephrased, "?") {
		rephrased += "?"
	}
	rephrased = strings.ToUpper(rephrased[:1]) + rephrased[1:]
	return rephrased, "", ""
}

func focusOnAspect(base types.Query, rng *rand.Rand) (string, string, string) {
	aspect := queryAspects[rng.Intn(len(queryAspects))]
	core := strings.TrimSuffix(base.Text, "?")
	text := fmt.Sprintf("How might we address %s %s?", aspect, core)
	return text, "focused_aspect", aspect
}

func alternativeApproach(base types.Query, rng *rand.Rand) (string, string, string) {
	approach := queryApproaches[rng.Intn(len(queryApproaches))]

	core := strings.ToLower(base.Text)
	switch {
	case strings.HasPrefix(core, "how might we "):
		core = core[len("how might we "):]
	case strings.HasPrefix(core, "how can "):
		core = core[len("how can "):]
	case strings.HasPrefix(core, "what are "):
		core = core[len("what are "):]
	}
	core = strings.TrimSuffix(core, "?")

	text := fmt.Sprintf("%s %s?", approach, core)
	return text, "alternative_approach", approach
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explore plans and executes combinatorial idea-generation runs:
// the cartesian product of backends, instruction templates, query variants,
// and domains, dispatched to generation backends through a worker pool.
package explore

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// GenerateOptions configure one combination-generation pass.
type GenerateOptions struct {
	// Catalog supplies templates, queries, and domains.
	Catalog *catalog.Catalog
	// Backends are the configured generation backends.
	Backends []types.Backend
	// QueryID names the base query to explore.
	QueryID string
	// QueryVariations is the number of query variants to derive in addition
	// to the base query.
	QueryVariations int
	// DomainIDs restricts the product to the named domains. Empty means all
	// catalog domains. Ids are taken as-given; a dangling id surfaces as an
	// unresolved reference at execution time.
	DomainIDs []string
	// BackendCount samples this many backends when fewer than configured.
	// Zero or negative means all.
	BackendCount int
	// InstructionCount samples this many templates. Zero or negative means
	// all.
	InstructionCount int
	// Rand drives sampling and variant derivation.
	Rand *rand.Rand
}

// GenerateCombinations builds the cartesian product of sampled backends,
// sampled instruction templates, the base query plus derived variants, and
// the selected domains. With no backends configured, placeholder backend
// ids model_1..model_N stand in; they resolve to no provider config and so
// execute as simulations. Fails with UnknownQueryError when the base query
// id does not resolve.
func GenerateCombinations(opts GenerateOptions) ([]types.Combination, error) {
	base, err := opts.Catalog.Queries.Get(opts.QueryID)
	if err != nil {
		return nil, err
	}

	variants, err := opts.Catalog.Queries.GenerateVariants(opts.QueryID, opts.QueryVariations, opts.Rand)
	if err != nil {
		return nil, err
	}
	queries := append([]types.Query{base}, variants...)

	backends := sampleBackends(opts.Backends, opts.BackendCount, opts.Rand)
	if len(backends) == 0 {
		backends = placeholderBackends(opts.BackendCount)
	}
	templates := sampleTemplates(opts.Catalog.Templates.List(), opts.InstructionCount, opts.Rand)

	domainIDs := opts.DomainIDs
	if len(domainIDs) == 0 {
		for _, d := range opts.Catalog.Domains.List() {
			domainIDs = append(domainIDs, d.ID)
		}
	}

	combinations := make([]types.Combination, 0, len(backends)*len(templates)*len(queries)*len(domainIDs))
	for _, b := range backends {
		for _, t := range templates {
			for _, q := range queries {
				for _, d := range domainIDs {
					combinations = append(combinations, types.Combination{
						ID:         fmt.Sprintf("%s_%s_%s_%s", b.ID, t.ID, q.ID, d),
						BackendID:  b.ID,
						TemplateID: t.ID,
						QueryID:    q.ID,
						DomainID:   d,
					})
				}
			}
		}
	}
	return combinations, nil
}

// placeholderBackends stands in when no backends are configured.
func placeholderBackends(count int) []types.Backend {
	if count <= 0 {
		count = 2
	}
	out := make([]types.Backend, count)
	for i := range out {
		id := fmt.Sprintf("model_%d", i+1)
		out[i] = types.Backend{ID: id, Name: id}
	}
	return out
}

// sampleBackends picks count backends uniformly without replacement,
// preserving registration order. Count outside (0, len) returns all.
func sampleBackends(backends []types.Backend, count int, rng *rand.Rand) []types.Backend {
	if count <= 0 || count >= len(backends) {
		return backends
	}
	out := make([]types.Backend, 0, count)
	for _, i := range sampleIndices(len(backends), count, rng) {
		out = append(out, backends[i])
	}
	return out
}

// sampleTemplates picks count templates uniformly without replacement,
// preserving registration order.
func sampleTemplates(templates []types.InstructionTemplate, count int, rng *rand.Rand) []types.InstructionTemplate {
	if count <= 0 || count >= len(templates) {
		return templates
	}
	out := make([]types.InstructionTemplate, 0, count)
	for _, i := range sampleIndices(len(templates), count, rng) {
		out = append(out, templates[i])
	}
	return out
}

// sampleIndices returns the first count indices of a random permutation of
// [0, n), sorted ascending so sampled items keep their original order.
func sampleIndices(n, count int, rng *rand.Rand) []int {
	perm := rng.Perm(n)[:count]
	sort.Ints(perm)
	return perm
}

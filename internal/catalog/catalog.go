// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog manages the instruction templates, queries, and domains
// that feed the exploration matrix.
package catalog

import (
	"fmt"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Catalog bundles the three registries the pipeline draws from.
type Catalog struct {
	Templates *Templates
	Queries   *Queries
	Domains   *Domains
}

// Default returns a catalog populated with the built-in templates, queries,
// and domains.
func Default() *Catalog {
	c := &Catalog{
		Templates: DefaultTemplates(),
		Queries:   NewQueries(),
		Domains:   DefaultDomains(),
	}
	for _, q := range DefaultQueries() {
		c.Queries.AddBase(q)
	}
	return c
}

// Load returns the default catalog with any configured catalog files applied.
// A configured file replaces the corresponding built-in registry entirely.
func Load(cfg types.CatalogConfig) (*Catalog, error) {
	c := Default()

	if cfg.TemplatesFile != "" {
		tpls, err := ReadTemplatesFile(cfg.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		c.Templates = tpls
	}
	if cfg.QueriesFile != "" {
		queries, err := ReadQueriesFile(cfg.QueriesFile)
		if err != nil {
			return nil, fmt.Errorf("loading queries: %w", err)
		}
		c.Queries = queries
	}
	if cfg.DomainsFile != "" {
		domains, err := ReadDomainsFile(cfg.DomainsFile)
		if err != nil {
			return nil, fmt.Errorf("loading domains: %w", err)
		}
		c.Domains = domains
	}
	return c, nil
}

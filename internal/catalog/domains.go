// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Domains is a registry of application domains with keyword search.
type Domains struct {
	byID  map[string]types.Domain
	order []string
}

// NewDomains returns an empty domain registry.
func NewDomains() *Domains {
	return &Domains{byID: make(map[string]types.Domain)}
}

// Add registers a domain. Registering a duplicate id is an error.
func (d *Domains) Add(domain types.Domain) error {
	if _, ok := d.byID[domain.ID]; ok {
		return fmt.Errorf("domain with id %q already exists", domain.ID)
	}
	d.byID[domain.ID] = domain
	d.order = append(d.order, domain.ID)
	return nil
}

// Get returns the domain with the given id.
func (d *Domains) Get(id string) (types.Domain, error) {
	domain, ok := d.byID[id]
	if !ok {
		return types.Domain{}, fmt.Errorf("no domain with id %q", id)
	}
	return domain, nil
}

// List returns all domains in registration order.
func (d *Domains) List() []types.Domain {
	out := make([]types.Domain, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Search returns the domains whose name, description, or keywords contain
// the query text, case-insensitively.
func (d *Domains) Search(query string) []types.Domain {
	needle := strings.ToLower(query)
	var out []types.Domain
	for _, id := range d.order {
		domain := d.byID[id]
		if strings.Contains(strings.ToLower(domain.Name), needle) ||
			strings.Contains(strings.ToLower(domain.Description), needle) {
			out = append(out, domain)
			continue
		}
		for _, kw := range domain.Keywords {
			if strings.Contains(strings.ToLower(kw), needle) {
				out = append(out, domain)
				break
			}
		}
	}
	return out
}

// Create builds a domain with a slugged id, registers it, and returns it.
func (d *Domains) Create(name, description string, keywords []string) (types.Domain, error) {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "_")
	domain := types.Domain{
		ID:          fmt.Sprintf("domain_%s_%s", slug, uuid.NewString()[:8]),
		Name:        name,
		Description: description,
		Keywords:    keywords,
	}
	if err := d.Add(domain); err != nil {
		return types.Domain{}, err
	}
	return domain, nil
}

// Delete removes the domain with the given id, reporting whether it existed.
func (d *Domains) Delete(id string) bool {
	if _, ok := d.byID[id]; !ok {
		return false
	}
	delete(d.byID, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Related returns domains sharing at least minShared keywords with the given
// domain, compared case-insensitively.
func (d *Domains) Related(id string, minShared int) ([]types.Domain, error) {
	source, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("no domain with id %q", id)
	}
	if len(source.Keywords) == 0 {
		return nil, nil
	}

	sourceKeywords := make(map[string]bool, len(source.Keywords))
	for _, kw := range source.Keywords {
		sourceKeywords[strings.ToLower(kw)] = true
	}

	var related []types.Domain
	for _, otherID := range d.order {
		if otherID == id {
			continue
		}
		other := d.byID[otherID]
		shared := 0
		for _, kw := range other.Keywords {
			if sourceKeywords[strings.ToLower(kw)] {
				shared++
			}
		}
		if shared >= minShared {
			related = append(related, other)
		}
	}
	return related, nil
}

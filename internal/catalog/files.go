// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// templatesFile is the on-disk representation of a template catalog.
type templatesFile struct {
	Templates []types.InstructionTemplate `yaml:"templates"`
}

// queriesFile is the on-disk representation of a query catalog. Only base
// queries are stored; variants are regenerated per run.
type queriesFile struct {
	Queries []types.Query `yaml:"queries"`
}

// domainsFile is the on-disk representation of a domain catalog.
type domainsFile struct {
	Domains []types.Domain `yaml:"domains"`
}

// ReadTemplatesFile loads a template registry from a YAML file.
func ReadTemplatesFile(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates file: %w", err)
	}
	var f templatesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing templates file: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("templates file %s contains no templates", path)
	}

	reg := NewTemplates()
	for _, tpl := range f.Templates {
		if err := reg.Add(tpl); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// WriteTemplatesFile saves a template registry to a YAML file.
func WriteTemplatesFile(path string, reg *Templates) error {
	data, err := yaml.Marshal(&templatesFile{Templates: reg.List()})
	if err != nil {
		return fmt.Errorf("marshaling templates file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueriesFile loads a query registry from a YAML file.
func ReadQueriesFile(path string) (*Queries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading queries file: %w", err)
	}
	var f queriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing queries file: %w", err)
	}
	if len(f.Queries) == 0 {
		return nil, fmt.Errorf("queries file %s contains no queries", path)
	}

	reg := NewQueries()
	for _, q := range f.Queries {
		reg.AddBase(q)
	}
	return reg, nil
}

// WriteQueriesFile saves the base queries of a registry to a YAML file.
func WriteQueriesFile(path string, reg *Queries) error {
	data, err := yaml.Marshal(&queriesFile{Queries: reg.ListBase()})
	if err != nil {
		return fmt.Errorf("marshaling queries file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadDomainsFile loads a domain registry from a YAML file.
func ReadDomainsFile(path string) (*Domains, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domains file: %w", err)
	}
	var f domainsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing domains file: %w", err)
	}
	if len(f.Domains) == 0 {
		return nil, fmt.Errorf("domains file %s contains no domains", path)
	}

	reg := NewDomains()
	for _, domain := range f.Domains {
		if err := reg.Add(domain); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// WriteDomainsFile saves a domain registry to a YAML file.
func WriteDomainsFile(path string, reg *Domains) error {
	data, err := yaml.Marshal(&domainsFile{Domains: reg.List()})
	if err != nil {
		return fmt.Errorf("marshaling domains file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Backend describes a configured text-generation model. Registered once from
// configuration and referenced by id in combinations; never mutated by the
// pipeline.
type Backend struct {
	// ID is the logical model id used in combination identifiers
	// (e.g. "claude_sonnet").
	ID string `json:"id" yaml:"id"`

	// Name is the provider's model name (e.g. "claude-3-sonnet-20240229").
	Name string `json:"name" yaml:"name"`

	// Provider selects the gateway implementation: "anthropic" or "openai".
	// When empty, the provider is inferred from Name.
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	// APIKey overrides the provider's environment credential when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Parameters are generation parameters forwarded on each call, subject
	// to the provider's extra-parameter allow-list.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// InstructionTemplate frames how a backend should approach a query.
// Rendering substitutes {name} placeholders from a variable mapping.
type InstructionTemplate struct {
	// ID is the template identifier (e.g. "ins_analytical").
	ID string `json:"id" yaml:"id"`

	// Name is the template's display name.
	Name string `json:"name" yaml:"name"`

	// Text is the template body with {name} placeholders.
	Text string `json:"template" yaml:"template"`

	// Metadata carries template tags. The "cognitive_style" value labels
	// the reasoning approach and flows into result metadata.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Query is a question posed to the exploration matrix. Base queries are
// user-supplied; variants are derived by variation strategies and are
// structurally identical.
type Query struct {
	// ID is the query identifier. Variant ids embed the base id and the
	// strategy that produced them.
	ID string `json:"id" yaml:"id"`

	// Text is the literal question text.
	Text string `json:"text" yaml:"text"`

	// Variables are named values available to template placeholders in
	// addition to the standard {domain}.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Domain is a topical area that supplies the {domain} substitution and
// flavors the simulation fallback.
type Domain struct {
	// ID is the domain identifier (e.g. "domain_healthcare").
	ID string `json:"id" yaml:"id"`

	// Name is the domain's display name.
	Name string `json:"name" yaml:"name"`

	// Description is the prose description substituted for {domain}.
	Description string `json:"description" yaml:"description"`

	// Keywords list the domain's characteristic terms, in catalog order.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

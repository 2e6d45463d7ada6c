// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// placeholderPattern matches {name} placeholders in template text.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// MissingVariableError reports a template placeholder absent from the
// supplied variable mapping. Fatal for the combination being rendered.
type MissingVariableError struct {
	// Variable is the placeholder name that could not be resolved.
	Variable string

	// Template is the display name of the template being rendered.
	Template string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required variable %q for template %q", e.Variable, e.Template)
}

// Templates is a registry of instruction templates. List returns templates
// in registration order so that sampling under a fixed seed is stable.
type Templates struct {
	byID  map[string]types.InstructionTemplate
	order []string
}

// NewTemplates returns an empty template registry.
func NewTemplates() *Templates {
	return &Templates{byID: make(map[string]types.InstructionTemplate)}
}

// Add registers a template. Registering a duplicate id is an error.
func (t *Templates) Add(tpl types.InstructionTemplate) error {
	if _, ok := t.byID[tpl.ID]; ok {
		return fmt.Errorf("template with id %q already exists", tpl.ID)
	}
	t.byID[tpl.ID] = tpl
	t.order = append(t.order, tpl.ID)
	return nil
}

// Get returns the template with the given id.
func (t *Templates) Get(id string) (types.InstructionTemplate, error) {
	tpl, ok := t.byID[id]
	if !ok {
		return types.InstructionTemplate{}, fmt.Errorf("no template with id %q", id)
	}
	return tpl, nil
}

// List returns all templates in registration order.
func (t *Templates) List() []types.InstructionTemplate {
	out := make([]types.InstructionTemplate, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// Filter returns the templates whose metadata key equals value.
func (t *Templates) Filter(key, value string) []types.InstructionTemplate {
	var out []types.InstructionTemplate
	for _, id := range t.order {
		if t.byID[id].Metadata[key] == value {
			out = append(out, t.byID[id])
		}
	}
	return out
}

// Render substitutes {name} placeholders in the template text from vars.
// A placeholder with no matching variable fails the render with a
// MissingVariableError naming the first absent variable.
func Render(tpl types.InstructionTemplate, vars map[string]string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(tpl.Text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", &MissingVariableError{Variable: missing, Template: tpl.Name}
	}
	return out, nil
}

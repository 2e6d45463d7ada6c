// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// RunState is the on-disk document for one exploration run: the combination
// working set plus everything the later stages derive from it. A run can be
// resumed at any stage by reloading the file.
type RunState struct {
	Combinations     []types.Combination         `yaml:"combinations" json:"combinations"`
	Results          map[string]types.Result     `yaml:"results" json:"results"`
	Evaluations      map[string]types.Evaluation `yaml:"evaluations" json:"evaluations"`
	SynthesizedIdeas map[string]types.Idea       `yaml:"synthesized_ideas" json:"synthesized_ideas"`
}

// NewRunState returns an empty state with all maps initialized.
func NewRunState() *RunState {
	return &RunState{
		Results:          make(map[string]types.Result),
		Evaluations:      make(map[string]types.Evaluation),
		SynthesizedIdeas: make(map[string]types.Idea),
	}
}

// SetWorkingSet replaces the combination list. Results from earlier sets are
// kept so re-planning does not discard executed work.
func (s *RunState) SetWorkingSet(combinations []types.Combination) {
	s.Combinations = combinations
}

// UpsertResult stores a result under its combination id, replacing any
// previous result for the same combination.
func (s *RunState) UpsertResult(result types.Result) {
	if s.Results == nil {
		s.Results = make(map[string]types.Result)
	}
	s.Results[result.CombinationID] = result
}

// UpsertEvaluation stores an evaluation under the given combination id.
func (s *RunState) UpsertEvaluation(combinationID string, eval types.Evaluation) {
	if s.Evaluations == nil {
		s.Evaluations = make(map[string]types.Evaluation)
	}
	s.Evaluations[combinationID] = eval
}

// StatusOf returns the execution status of a combination: the stored
// result's status, or StatusPending when no result exists yet.
func (s *RunState) StatusOf(combinationID string) types.ResultStatus {
	if result, ok := s.Results[combinationID]; ok {
		return result.Status
	}
	return types.StatusPending
}

// AddIdeas accumulates synthesized ideas by id. Existing ideas are never
// removed; repeated synthesis runs grow the collection.
func (s *RunState) AddIdeas(ideas []types.Idea) {
	if s.SynthesizedIdeas == nil {
		s.SynthesizedIdeas = make(map[string]types.Idea)
	}
	for _, idea := range ideas {
		s.SynthesizedIdeas[idea.ID] = idea
	}
}

// Load reads a run state from path. The file is parsed as JSON when the
// path ends in .json, otherwise as YAML.
func Load(path string) (*RunState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	state := NewRunState()
	if isJSONPath(path) {
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("parsing state file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("parsing state file: %w", err)
		}
	}
	return state, nil
}

// LoadOrNew reads a run state from path, or returns a fresh empty state when
// the file does not exist yet.
func LoadOrNew(path string) (*RunState, error) {
	state, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewRunState(), nil
		}
		return nil, err
	}
	return state, nil
}

// Save writes the run state to path, creating parent directories as needed.
// The format follows the path extension the same way Load does.
func (s *RunState) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}

	var data []byte
	var err error
	if isJSONPath(path) {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

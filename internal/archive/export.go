// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportRun is one archived run with its ideas, as written by the export
// commands. Results and evaluations stay in the run's own state file; the
// archive export is the cross-run idea digest.
type ExportRun struct {
	RunRecord `yaml:",inline"`
	Ideas     []ArchivedIdea `json:"ideas,omitempty" yaml:"ideas,omitempty"`
}

// ExportYAML writes the archived runs and their ideas to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the archived runs and their ideas to path as JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context) ([]ExportRun, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportRun, len(runs))
	for i, run := range runs {
		ideas, err := s.runIdeas(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		entries[i] = ExportRun{RunRecord: run, Ideas: ideas}
	}
	return entries, nil
}

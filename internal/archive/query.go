// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const defaultTopIdeas = 10

// RunRecord summarizes one archived run.
type RunRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Label        string    `json:"label" yaml:"label"`
	Query        string    `json:"query" yaml:"query"`
	Combinations int       `json:"combinations" yaml:"combinations"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Runs lists the archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, query, combinations, created_at FROM runs
		 ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec       RunRecord
			query     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Label, &query, &rec.Combinations, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if query.Valid {
			rec.Query = query.String
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ArchivedIdea is an idea row joined with its run's label.
type ArchivedIdea struct {
	RunID        string   `json:"run_id" yaml:"run_id"`
	RunLabel     string   `json:"run_label" yaml:"run_label"`
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Text         string   `json:"text" yaml:"text"`
	Method       string   `json:"method" yaml:"method"`
	AverageScore float64  `json:"average_score" yaml:"average_score"`
	Sources      []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

const ideaColumns = `i.run_id, r.label, i.id, i.title, i.description, i.text,
	i.method, i.average_score, i.sources`

// TopIdeas returns the highest-scoring ideas across all archived runs.
// Non-positive limits use the default of 10.
func (s *Store) TopIdeas(ctx context.Context, limit int) ([]ArchivedIdea, error) {
	if limit <= 0 {
		limit = defaultTopIdeas
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ideaColumns+`
		 FROM ideas i
		 JOIN runs r ON i.run_id = r.id
		 ORDER BY i.average_score DESC, r.created_at DESC, i.id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

// runIdeas returns the archived ideas of a single run in id order.
func (s *Store) runIdeas(ctx context.Context, runID string) ([]ArchivedIdea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ideaColumns+`
		 FROM ideas i
		 JOIN runs r ON i.run_id = r.id
		 WHERE i.run_id = ?
		 ORDER BY i.id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

func scanIdeas(rows *sql.Rows) ([]ArchivedIdea, error) {
	var ideas []ArchivedIdea
	for rows.Next() {
		var (
			idea        ArchivedIdea
			title       sql.NullString
			description sql.NullString
			text        sql.NullString
			method      sql.NullString
			sourcesJSON sql.NullString
		)
		if err := rows.Scan(
			&idea.RunID, &idea.RunLabel, &idea.ID, &title, &description, &text,
			&method, &idea.AverageScore, &sourcesJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		if title.Valid {
			idea.Title = title.String
		}
		if description.Valid {
			idea.Description = description.String
		}
		if text.Valid {
			idea.Text = text.String
		}
		if method.Valid {
			idea.Method = method.String
		}
		if sourcesJSON.Valid {
			json.Unmarshal([]byte(sourcesJSON.String), &idea.Sources)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

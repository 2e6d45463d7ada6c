// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed runs in a SQLite database so results
// and ideas can be inspected across runs.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/idea-engine/internal/explore"
)

const dbFile = "archive.db"

// Store manages the run archive SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the archive database at dir/archive.db. It
// creates the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL UNIQUE,
			query TEXT,
			combinations INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			combination_id TEXT NOT NULL,
			backend TEXT,
			style TEXT,
			status TEXT NOT NULL,
			prompt TEXT,
			response TEXT,
			error TEXT,
			duration_seconds REAL,
			simulated INTEGER NOT NULL DEFAULT 0,
			timestamp TEXT,
			PRIMARY KEY (run_id, combination_id)
		)`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			combination_id TEXT NOT NULL,
			criterion TEXT NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (run_id, combination_id, criterion)
		)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			title TEXT,
			description TEXT,
			text TEXT,
			method TEXT,
			cluster_id INTEGER,
			cluster_size INTEGER,
			sources_count INTEGER,
			average_score REAL,
			sources TEXT,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_run ON evaluations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_score ON ideas(average_score)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun archives a run state under the given label in one transaction.
// A label seen before updates the existing archived run in place; a new
// label creates a run with a fresh uuid. Returns the run id.
func (s *Store) SaveRun(ctx context.Context, label string, state *explore.RunState) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var runID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM runs WHERE label = ?`, label).Scan(&runID)
	isUpdate := err == nil
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("looking up run label: %w", err)
	}
	if !isUpdate {
		runID = uuid.NewString()
	}

	// Re-archiving replaces the previous snapshot of the run.
	if isUpdate {
		for _, table := range []string{"results", "evaluations", "ideas"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, runID); err != nil {
				return "", fmt.Errorf("clearing archived %s: %w", table, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, query, combinations, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			label=excluded.label, query=excluded.query,
			combinations=excluded.combinations, created_at=excluded.created_at`,
		runID, label, primaryQueryID(state), len(state.Combinations),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("upserting run: %w", err)
	}

	if err := insertResults(ctx, tx, runID, state); err != nil {
		return "", err
	}
	if err := insertEvaluations(ctx, tx, runID, state); err != nil {
		return "", err
	}
	if err := insertIdeas(ctx, tx, runID, state); err != nil {
		return "", err
	}

	return runID, tx.Commit()
}

func insertResults(ctx context.Context, tx *sql.Tx, runID string, state *explore.RunState) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO results
			(run_id, combination_id, backend, style, status, prompt, response,
			 error, duration_seconds, simulated, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(state.Results))
	for id := range state.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r := state.Results[id]
		simulated := 0
		if r.Metadata.Simulated {
			simulated = 1
		}
		_, err := stmt.ExecContext(ctx,
			runID, id, r.Metadata.Backend, r.Metadata.Style, string(r.Status),
			r.Prompt, r.Response, r.Metadata.Error, r.Metadata.DurationSeconds,
			simulated, r.Metadata.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting result %s: %w", id, err)
		}
	}
	return nil
}

func insertEvaluations(ctx context.Context, tx *sql.Tx, runID string, state *explore.RunState) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO evaluations (run_id, combination_id, criterion, score)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing evaluation insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(state.Evaluations))
	for id := range state.Evaluations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		eval := state.Evaluations[id]
		criteria := make([]string, 0, len(eval))
		for criterion := range eval {
			criteria = append(criteria, criterion)
		}
		sort.Strings(criteria)

		for _, criterion := range criteria {
			if _, err := stmt.ExecContext(ctx, runID, id, criterion, eval[criterion]); err != nil {
				return fmt.Errorf("inserting evaluation %s/%s: %w", id, criterion, err)
			}
		}
	}
	return nil
}

func insertIdeas(ctx context.Context, tx *sql.Tx, runID string, state *explore.RunState) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO ideas
			(run_id, id, title, description, text, method, cluster_id,
			 cluster_size, sources_count, average_score, sources)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing idea insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(state.SynthesizedIdeas))
	for id := range state.SynthesizedIdeas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		idea := state.SynthesizedIdeas[id]
		sourcesJSON, _ := json.Marshal(idea.SourceCombinations)
		_, err := stmt.ExecContext(ctx,
			runID, id, idea.Title, idea.Description, idea.Text,
			idea.Metadata.Method, idea.Metadata.ClusterID, idea.Metadata.ClusterSize,
			idea.Metadata.SourcesCount, idea.Metadata.AverageScore, string(sourcesJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting idea %s: %w", id, err)
		}
	}
	return nil
}

// primaryQueryID picks the run's representative query id: the shortest
// distinct id referenced by the working set, since variant ids extend
// their base id.
func primaryQueryID(state *explore.RunState) string {
	best := ""
	for _, c := range state.Combinations {
		if best == "" || len(c.QueryID) < len(best) ||
			(len(c.QueryID) == len(best) && c.QueryID < best) {
			best = c.QueryID
		}
	}
	return best
}

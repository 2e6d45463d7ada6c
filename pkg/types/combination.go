// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the idea-engine pipeline.
package types

import "time"

// ResultStatus tracks a combination through the execution state machine.
// Every combination ends in one of the three terminal states; a stored
// Result exists for each of them.
type ResultStatus string

const (
	StatusPending        ResultStatus = "pending"
	StatusRunning        ResultStatus = "running"
	StatusSucceeded      ResultStatus = "succeeded"
	StatusFailedFallback ResultStatus = "failed_fallback"
	StatusFailedTerminal ResultStatus = "failed_terminal"
)

// Combination is one fully-resolved tuple of backend, instruction template,
// query, and domain drawn from the exploration matrix.
type Combination struct {
	// ID is the deterministic concatenation of the four component ids,
	// underscore-joined in backend/template/query/domain order.
	ID string `json:"id" yaml:"id"`

	// BackendID references a configured generation backend.
	BackendID string `json:"backend" yaml:"backend"`

	// TemplateID references an instruction template in the catalog.
	TemplateID string `json:"template" yaml:"template"`

	// QueryID references a base query or a generated variant.
	QueryID string `json:"query" yaml:"query"`

	// DomainID references a domain in the catalog.
	DomainID string `json:"domain" yaml:"domain"`
}

// ResultMetadata records how a result was produced.
type ResultMetadata struct {
	// Backend is the backend id the combination was dispatched to.
	Backend string `json:"backend" yaml:"backend"`

	// Style is the cognitive_style tag of the instruction template used.
	Style string `json:"style" yaml:"style"`

	// Timestamp is when the response was recorded.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// DurationSeconds is the wall-clock time of the backend call. Zero for
	// simulated and terminal-failure results.
	DurationSeconds float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`

	// Simulated marks a response produced by the simulation fallback.
	Simulated bool `json:"simulated,omitempty" yaml:"simulated,omitempty"`

	// Error records the failure message for recorded-error and
	// terminal-failure results. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the stored outcome of executing one combination. Exactly one
// result exists per executed combination; re-execution overwrites it.
type Result struct {
	// CombinationID links the result to its combination.
	CombinationID string `json:"combination_id" yaml:"combination_id"`

	// Prompt is the rendered instruction followed by a blank line and the
	// query text.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Response is the raw backend response, the simulated text, or the
	// captured error text.
	Response string `json:"response" yaml:"response"`

	// Status is the terminal state the combination reached.
	Status ResultStatus `json:"status" yaml:"status"`

	// Metadata records backend, style, timing, and failure details.
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// Evaluation maps criterion names to scores for one result, including the
// synthesized "overall" entry computed over the evaluated criterion set.
type Evaluation map[string]float64

// IdeaMetadata describes the synthesis that produced an idea.
type IdeaMetadata struct {
	// Method names the synthesizer used (e.g. "cluster_based").
	Method string `json:"method" yaml:"method"`

	// ClusterID is the 1-based group index for cluster-based synthesis.
	ClusterID int `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`

	// ClusterSize is the number of results in the group.
	ClusterSize int `json:"cluster_size,omitempty" yaml:"cluster_size,omitempty"`

	// SourcesCount is the number of results combined by cross-pollination.
	SourcesCount int `json:"sources_count,omitempty" yaml:"sources_count,omitempty"`

	// AverageScore is the mean ranking score of the source results.
	AverageScore float64 `json:"average_score" yaml:"average_score"`
}

// Idea is a synthesized idea produced from a group of top-ranked results.
type Idea struct {
	// ID is unique per synthesis invocation; re-running synthesis yields
	// new ids rather than overwriting earlier ideas.
	ID string `json:"id" yaml:"id"`

	// Title is a short human-readable name for the idea.
	Title string `json:"title" yaml:"title"`

	// Description states how the idea was derived.
	Description string `json:"description" yaml:"description"`

	// Text is the idea's full text.
	Text string `json:"text" yaml:"text"`

	// SourceCombinations lists the combination ids the idea was drawn
	// from, in rank order.
	SourceCombinations []string `json:"source_combinations" yaml:"source_combinations"`

	// Metadata carries the synthesis method, group size, and average score.
	Metadata IdeaMetadata `json:"metadata" yaml:"metadata"`
}

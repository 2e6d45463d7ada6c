package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that call provider APIs.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "idea-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ExploreConfig holds settings for combination generation and execution.
type ExploreConfig struct {
	HTTPConfig `yaml:",inline"`

	// BackendCount is the number of configured backends to sample into the
	// matrix (default 2). Sampling applies only when fewer are requested
	// than are configured.
	BackendCount int `json:"backend_count" yaml:"backend_count"`

	// InstructionCount is the number of instruction templates to sample
	// (default 3).
	InstructionCount int `json:"instruction_count" yaml:"instruction_count"`

	// QueryVariations is the number of query variants to generate from the
	// base query (default 2).
	QueryVariations int `json:"query_variations" yaml:"query_variations"`

	// MaxCombinations caps how many combinations are executed, taken from
	// the head of the working set. Zero means no cap.
	MaxCombinations int `json:"max_combinations" yaml:"max_combinations"`

	// Workers is the number of concurrent execution workers (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// RequestsPerSecond is the shared token-bucket rate for real backend
	// calls (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the retry budget for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Simulate forces the simulation fallback for every combination.
	Simulate bool `json:"simulate" yaml:"simulate"`

	// Seed fixes the pseudo-random source for sampling, variant selection,
	// and simulated responses. Zero seeds from the current time.
	Seed int64 `json:"seed" yaml:"seed"`
}

// ScoringConfig holds settings for the evaluation stage.
type ScoringConfig struct {
	// Criteria filters scoring to the named criteria. Empty means all
	// registered criteria. The overall score is computed over the filtered
	// set, so filtering changes what "overall" means.
	Criteria []string `json:"criteria,omitempty" yaml:"criteria,omitempty"`

	// TopN is the number of ranked results fed to synthesis (default 10).
	TopN int `json:"top_n" yaml:"top_n"`
}

// SynthesisConfig holds settings for the synthesis stage.
type SynthesisConfig struct {
	// Method names the synthesizer: cluster_based or cross_pollination.
	Method string `json:"method" yaml:"method"`

	// Criterion is the ranking criterion for selecting top results
	// (default "overall").
	Criterion string `json:"criterion" yaml:"criterion"`
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`

	// MaxIdeas is the default limit for cross-run idea queries (default 10).
	MaxIdeas int `json:"max_ideas" yaml:"max_ideas"`
}

// CatalogConfig points at optional catalog files that replace the built-in
// defaults when present.
type CatalogConfig struct {
	// TemplatesFile is a YAML file of instruction templates.
	TemplatesFile string `json:"templates_file,omitempty" yaml:"templates_file,omitempty"`

	// QueriesFile is a YAML file of base queries.
	QueriesFile string `json:"queries_file,omitempty" yaml:"queries_file,omitempty"`

	// DomainsFile is a YAML file of domains.
	DomainsFile string `json:"domains_file,omitempty" yaml:"domains_file,omitempty"`
}

// PipelineConfig groups all stage configurations plus the catalog inputs.
type PipelineConfig struct {
	// Backends lists the generation models available to the matrix. The
	// slice order is the registration order used for sampling.
	Backends []Backend `json:"backends" yaml:"backends"`

	// StatePath is the default run-state file (default "state/run.yaml").
	StatePath string `json:"state_path" yaml:"state_path"`

	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Explore   ExploreConfig   `json:"explore" yaml:"explore"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}

package explore

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/idea-engine/internal/backend"
	"github.com/pdiddy/idea-engine/internal/catalog"
	"github.com/pdiddy/idea-engine/pkg/types"
)

const (
	defaultWorkers           = 4
	defaultRequestsPerSecond = 5
)

// UnresolvedReferenceError marks a combination whose component id no longer
// resolves in its registry. The combination fails terminally; the batch
// continues.
type UnresolvedReferenceError struct {
	Kind string
	ID   string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("combination references unknown %s %q", e.Kind, e.ID)
}

// Summary tallies one execution batch.
type Summary struct {
	// Executed is the number of results stored.
	Executed int
	// Succeeded counts real backend responses.
	Succeeded int
	// Simulated counts simulation-fallback responses.
	Simulated int
	// Failed counts recorded-error and terminal-failure results.
	Failed int
}

// HasFailures reports whether any combination failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Executor runs the working set through a bounded worker pool. Real backend
// calls share a token-bucket rate limiter; simulated and failed combinations
// do not consume tokens. Results flow through a single collector goroutine
// into the run state, so no shared map is written concurrently.
type Executor struct {
	Catalog  *catalog.Catalog
	Backends []types.Backend
	Config   types.ExploreConfig
	Out      io.Writer

	limiter *rate.Limiter
	rng     *rand.Rand
	byID    map[string]types.Backend
}

// NewExecutor builds an executor with defaults applied: 4 workers, 5 real
// requests per second, and a time-seeded random source unless cfg.Seed is
// set.
func NewExecutor(cat *catalog.Catalog, backends []types.Backend, cfg types.ExploreConfig, out io.Writer) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if out == nil {
		out = io.Discard
	}

	byID := make(map[string]types.Backend, len(backends))
	for _, b := range backends {
		byID[b.ID] = b
	}

	return &Executor{
		Catalog:  cat,
		Backends: backends,
		Config:   cfg,
		Out:      out,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		rng:      rand.New(rand.NewSource(seed)),
		byID:     byID,
	}
}

// Rand exposes the executor's seeded random source so combination generation
// and execution can share one reproducible stream.
func (e *Executor) Rand() *rand.Rand {
	return e.rng
}

// Execute runs the state's working set, honoring the configured combination
// cap, and upserts one result per executed combination. In dry-run mode it
// reports the plan and stores nothing. Cancelling the context stops dispatch;
// results collected before cancellation stay in the state, and the context
// error is returned alongside the partial summary.
func (e *Executor) Execute(ctx context.Context, state *RunState, dryRun bool) (Summary, error) {
	combos := state.Combinations

	if e.Config.MaxCombinations > 0 && len(combos) > e.Config.MaxCombinations {
		fmt.Fprintf(e.Out, "Limiting execution to %d out of %d combinations\n", e.Config.MaxCombinations, len(combos))
		combos = combos[:e.Config.MaxCombinations]
	}

	if dryRun {
		fmt.Fprintf(e.Out, "Would execute %d combinations\n", len(combos))
		for i, combo := range combos {
			if i == 5 {
				fmt.Fprintf(e.Out, "... and %d more\n", len(combos)-5)
				break
			}
			fmt.Fprintf(e.Out, "%d. Combination: %s\n", i+1, combo.ID)
		}
		return Summary{}, nil
	}

	jobs := make(chan types.Combination)
	results := make(chan types.Result)

	var wg sync.WaitGroup
	for w := 0; w < e.Config.Workers; w++ {
		wg.Add(1)
		workerRng := rand.New(rand.NewSource(e.rng.Int63()))
		go func(rng *rand.Rand) {
			defer wg.Done()
			cache := backend.NewCache()
			for combo := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results <- e.executeOne(ctx, combo, cache, rng)
			}
		}(workerRng)
	}

	done := make(chan Summary)
	go func() {
		var s Summary
		for res := range results {
			state.UpsertResult(res)
			s.Executed++
			switch {
			case res.Status == types.StatusSucceeded:
				s.Succeeded++
			case res.Metadata.Simulated:
				s.Simulated++
			default:
				s.Failed++
			}
		}
		done <- s
	}()

	total := len(combos)
dispatch:
	for i, combo := range combos {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(e.Out, "Executing combination %d/%d: %s\n", i+1, total, combo.ID)
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- combo:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	summary := <-done

	fmt.Fprintf(e.Out, "Executed %d combinations\n", summary.Executed)
	return summary, ctx.Err()
}

// executeOne resolves one combination and produces its result. Failures are
// recorded, never raised: dangling references and missing template variables
// end terminally, unusable backends degrade to the simulation fallback, and
// backend call errors become error-text results.
func (e *Executor) executeOne(ctx context.Context, combo types.Combination, cache *backend.Cache, rng *rand.Rand) types.Result {
	template, err := e.Catalog.Templates.Get(combo.TemplateID)
	if err != nil {
		return terminalResult(combo, "", "", &UnresolvedReferenceError{Kind: "template", ID: combo.TemplateID})
	}
	query, err := e.Catalog.Queries.Get(combo.QueryID)
	if err != nil {
		return terminalResult(combo, "", "", &UnresolvedReferenceError{Kind: "query", ID: combo.QueryID})
	}
	domain, err := e.Catalog.Domains.Get(combo.DomainID)
	if err != nil {
		return terminalResult(combo, "", "", &UnresolvedReferenceError{Kind: "domain", ID: combo.DomainID})
	}

	style := template.Metadata["cognitive_style"]
	if style == "" {
		style = "default"
	}

	vars := make(map[string]string, len(query.Variables)+1)
	vars["domain"] = domain.Description
	for k, v := range query.Variables {
		vars[k] = v
	}

	rendered, err := catalog.Render(template, vars)
	if err != nil {
		return terminalResult(combo, "", style, err)
	}
	prompt := rendered + "\n\n" + query.Text

	simulate := func(model string) types.Result {
		sim := backend.NewSimulated(model, style, domain, query, rng)
		text, _ := sim.Generate(ctx, prompt, nil)
		return types.Result{
			CombinationID: combo.ID,
			Prompt:        prompt,
			Response:      text,
			Status:        types.StatusFailedFallback,
			Metadata: types.ResultMetadata{
				Backend:   combo.BackendID,
				Style:     style,
				Timestamp: time.Now(),
				Simulated: true,
			},
		}
	}

	bcfg, hasConfig := e.byID[combo.BackendID]
	if !hasConfig {
		return simulate(combo.BackendID)
	}

	params, model := backendParams(bcfg)
	if e.Config.Simulate {
		return simulate(model)
	}

	provider := bcfg.Provider
	if provider == "" {
		provider = backend.InferProvider(model)
	}
	if provider == "" {
		return simulate(model)
	}

	client, err := cache.Get(combo.BackendID, func() (backend.Generator, error) {
		return backend.NewWithConfig(provider, bcfg.APIKey, backend.ClientConfig{
			Timeout:   e.Config.Timeout,
			UserAgent: e.Config.UserAgent,
		})
	})
	if err != nil {
		return simulate(model)
	}

	start := time.Now()
	if err := e.limiter.Wait(ctx); err != nil {
		return errorResult(combo, prompt, style, err, time.Since(start))
	}
	text, err := client.Generate(ctx, prompt, params)
	duration := time.Since(start)
	if err != nil {
		return errorResult(combo, prompt, style, err, duration)
	}

	return types.Result{
		CombinationID: combo.ID,
		Prompt:        prompt,
		Response:      text,
		Status:        types.StatusSucceeded,
		Metadata: types.ResultMetadata{
			Backend:         combo.BackendID,
			Style:           style,
			Timestamp:       time.Now(),
			DurationSeconds: duration.Seconds(),
		},
	}
}

// backendParams copies the backend's generation parameters and resolves the
// effective model name, injecting it under the "model" key when the config
// does not set one.
func backendParams(b types.Backend) (map[string]any, string) {
	params := make(map[string]any, len(b.Parameters)+1)
	for k, v := range b.Parameters {
		params[k] = v
	}
	model, _ := params["model"].(string)
	if model == "" {
		model = b.Name
		params["model"] = model
	}
	return params, model
}

func terminalResult(combo types.Combination, prompt, style string, err error) types.Result {
	return types.Result{
		CombinationID: combo.ID,
		Prompt:        prompt,
		Response:      err.Error(),
		Status:        types.StatusFailedTerminal,
		Metadata: types.ResultMetadata{
			Backend:   combo.BackendID,
			Style:     style,
			Timestamp: time.Now(),
			Error:     err.Error(),
		},
	}
}

func errorResult(combo types.Combination, prompt, style string, err error, duration time.Duration) types.Result {
	return types.Result{
		CombinationID: combo.ID,
		Prompt:        prompt,
		Response:      "Error generating response: " + err.Error(),
		Status:        types.StatusFailedFallback,
		Metadata: types.ResultMetadata{
			Backend:         combo.BackendID,
			Style:           style,
			Timestamp:       time.Now(),
			DurationSeconds: duration.Seconds(),
			Error:           err.Error(),
		},
	}
}

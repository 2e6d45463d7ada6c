// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend provides uniform access to pluggable text-generation
// providers. Each provider hides its authentication, request format, and
// response parsing behind the Generator interface and reports failures as
// normalized errors the execution engine can record without aborting a run.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Default generation parameters applied when the caller does not override
// them.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

// Generator is the uniform interface to a text-generation provider.
type Generator interface {
	// Name returns the provider name (e.g. "anthropic").
	Name() string

	// Generate sends prompt with the given generation parameters and
	// returns the response text. Failures are reported as *Error.
	Generate(ctx context.Context, prompt string, params map[string]any) (string, error)
}

// ErrorReason classifies a provider failure so callers can branch on
// "unreachable" vs "rejected" vs "malformed".
type ErrorReason string

const (
	// ReasonRejected marks a non-2xx provider response.
	ReasonRejected ErrorReason = "rejected"

	// ReasonUnreachable marks a transport failure (timeout, connection error).
	ReasonUnreachable ErrorReason = "unreachable"

	// ReasonMalformed marks a success payload missing the expected fields.
	ReasonMalformed ErrorReason = "malformed"
)

// Error is the normalized failure for any provider call.
type Error struct {
	// Provider is the provider name that produced the failure.
	Provider string

	// Reason classifies the failure.
	Reason ErrorReason

	// Message is the best-effort human-readable failure description.
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s backend %s: %s", e.Provider, e.Reason, e.Message)
}

// MissingCredentialError reports that a backend could not be constructed
// because no API key was supplied or found in the environment.
type MissingCredentialError struct {
	Provider string
	EnvVar   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("no API key for %s: pass one explicitly or set %s", e.Provider, e.EnvVar)
}

// UnsupportedProviderError reports an unrecognized provider name.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q", e.Provider)
}

// ClientConfig carries transport settings shared by the provider backends.
// The zero value means no request timeout and no User-Agent header.
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// New resolves a provider name, matched case-insensitively, to a concrete
// backend. An empty apiKey falls back to the provider's environment
// variable; construction fails with MissingCredentialError when neither is
// available.
func New(provider, apiKey string) (Generator, error) {
	return NewWithConfig(provider, apiKey, ClientConfig{})
}

// NewWithConfig is New with explicit transport settings.
func NewWithConfig(provider, apiKey string, cfg ClientConfig) (Generator, error) {
	switch strings.ToLower(provider) {
	case "anthropic":
		return newAnthropic(apiKey, cfg)
	case "openai":
		return newOpenAI(apiKey, cfg)
	default:
		return nil, &UnsupportedProviderError{Provider: provider}
	}
}

// InferProvider guesses the provider from a model name. Returns an empty
// string when the name carries no recognizable hint.
func InferProvider(model string) string {
	name := strings.ToLower(model)
	switch {
	case strings.Contains(name, "claude"):
		return "anthropic"
	case strings.Contains(name, "gpt"):
		return "openai"
	default:
		return ""
	}
}

// Cache holds one Generator per logical model id so credential lookup and
// client setup happen once per run, not once per combination. The accessor
// is concurrency-safe, but the cached clients are not guaranteed to be, so
// executor workers each own a separate Cache.
type Cache struct {
	mu      sync.Mutex
	clients map[string]Generator
}

// NewCache returns an empty client cache.
func NewCache() *Cache {
	return &Cache{clients: make(map[string]Generator)}
}

// Get returns the cached client for the model id, constructing it with
// build on first use. A failed construction is not cached, so a later call
// can succeed once credentials appear.
func (c *Cache) Get(modelID string, build func() (Generator, error)) (Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.clients[modelID]; ok {
		return g, nil
	}
	g, err := build()
	if err != nil {
		return nil, err
	}
	c.clients[modelID] = g
	return g, nil
}

// envKey resolves an API credential: the explicit key wins, else the named
// environment variable.
func envKey(explicit, envVar string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envVar)
}

// stringParam returns params[key] as a string, or def when absent.
func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// intParam returns params[key] as an int, or def when absent. YAML and JSON
// decoding produce different numeric types, so both are accepted.
func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// floatParam returns params[key] as a float64, or def when absent.
func floatParam(params map[string]any, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// errorMessage extracts the provider's error.message from an error body.
// Bodies that parse but carry no message yield a generic message; bodies
// that do not parse yield the status code and a body prefix.
func errorMessage(status int, body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		return "Unknown API error"
	}

	snippet := string(body)
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	return fmt.Sprintf("API error: %d - %s", status, snippet)
}

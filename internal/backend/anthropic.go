// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pdiddy/idea-engine/internal/httputil"
)

// anthropicAPIURL is the Anthropic Messages API endpoint. Package-level var
// for test substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

const (
	anthropicEnvKey       = "ANTHROPIC_API_KEY"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-sonnet-20240229"
)

// anthropicExtraParams are the provider-specific parameters forwarded from
// the caller. The openai list is independent; the two providers do not
// share an allow-list.
var anthropicExtraParams = []string{"top_p", "top_k", "stop_sequences"}

// anthropicBackend calls the Anthropic Messages API.
type anthropicBackend struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func newAnthropic(apiKey string, cfg ClientConfig) (Generator, error) {
	key := envKey(apiKey, anthropicEnvKey)
	if key == "" {
		return nil, &MissingCredentialError{Provider: "anthropic", EnvVar: anthropicEnvKey}
	}
	return &anthropicBackend{
		apiKey:    key,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (b *anthropicBackend) Name() string { return "anthropic" }

// anthropicResponse is the response body from the Messages API.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends one user message and returns the first content block's text.
func (b *anthropicBackend) Generate(ctx context.Context, prompt string, params map[string]any) (string, error) {
	payload := map[string]any{
		"model":       stringParam(params, "model", anthropicDefaultModel),
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  intParam(params, "max_tokens", DefaultMaxTokens),
		"temperature": floatParam(params, "temperature", DefaultTemperature),
	}
	for _, key := range anthropicExtraParams {
		if v, ok := params[key]; ok {
			payload[key] = v
		}
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Provider: "anthropic", Reason: ReasonMalformed, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &Error{Provider: "anthropic", Reason: ReasonUnreachable, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return "", &Error{Provider: "anthropic", Reason: ReasonUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &Error{Provider: "anthropic", Reason: ReasonRejected, Message: errorMessage(resp.StatusCode, body)}
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &Error{Provider: "anthropic", Reason: ReasonMalformed, Message: "decoding response: " + err.Error()}
	}
	if len(parsed.Content) == 0 {
		return "", &Error{Provider: "anthropic", Reason: ReasonMalformed, Message: "response contains no content blocks"}
	}
	return parsed.Content[0].Text, nil
}

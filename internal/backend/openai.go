// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/idea-engine/internal/httputil"
)

// openaiAPIURL is the OpenAI chat completions endpoint. Package-level var
// for test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

const (
	openaiEnvKey       = "OPENAI_API_KEY"
	openaiEnvOrg       = "OPENAI_ORGANIZATION"
	openaiDefaultModel = "gpt-4-turbo"
)

// openaiExtraParams are the provider-specific parameters forwarded from the
// caller.
var openaiExtraParams = []string{"top_p", "presence_penalty", "frequency_penalty", "stop"}

// openaiBackend calls the OpenAI chat completions API.
type openaiBackend struct {
	apiKey       string
	organization string
	userAgent    string
	client       *http.Client
}

func newOpenAI(apiKey string, cfg ClientConfig) (Generator, error) {
	key := envKey(apiKey, openaiEnvKey)
	if key == "" {
		return nil, &MissingCredentialError{Provider: "openai", EnvVar: openaiEnvKey}
	}
	return &openaiBackend{
		apiKey:       key,
		organization: os.Getenv(openaiEnvOrg),
		userAgent:    cfg.UserAgent,
		client:       &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (b *openaiBackend) Name() string { return "openai" }

// openaiResponse is the response body from the chat completions API.
type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends one user message and returns the first choice's content.
func (b *openaiBackend) Generate(ctx context.Context, prompt string, params map[string]any) (string, error) {
	payload := map[string]any{
		"model":       stringParam(params, "model", openaiDefaultModel),
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  intParam(params, "max_tokens", DefaultMaxTokens),
		"temperature": floatParam(params, "temperature", DefaultTemperature),
	}
	for _, key := range openaiExtraParams {
		if v, ok := params[key]; ok {
			payload[key] = v
		}
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Provider: "openai", Reason: ReasonMalformed, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &Error{Provider: "openai", Reason: ReasonUnreachable, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	if b.organization != "" {
		req.Header.Set("OpenAI-Organization", b.organization)
	}
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return "", &Error{Provider: "openai", Reason: ReasonUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &Error{Provider: "openai", Reason: ReasonRejected, Message: errorMessage(resp.StatusCode, body)}
	}

	var parsed openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &Error{Provider: "openai", Reason: ReasonMalformed, Message: "decoding response: " + err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Provider: "openai", Reason: ReasonMalformed, Message: "response contains no choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}

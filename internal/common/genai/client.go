// internal/common/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shopify-analytics-service/internal/common/errors"
	"shopify-analytics-service/internal/common/httputil"
	"shopify-analytics-service/internal/common/logger"
)

// Client calls an OpenAI-style chat-completions endpoint. The API key is a
// constructor argument; there is no package-level credential state.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *httputil.Client
	logger     logger.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httputil.NewClient(timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "genai-client"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate requests a bounded free-text completion. Any failure (transport,
// non-200 status, malformed body, empty content) comes back as an error so
// the synthesizer can route to its deterministic fallback.
func (c *Client) Generate(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error) {
	requestBody := map[string]interface{}{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		return "", errors.NewGenerationFailedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewGenerationFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.NewGenerationTimeoutError()
		}
		return "", errors.NewGenerationFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewGenerationFailedError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", errors.NewGenerationFailedError(fmt.Errorf("decode error: %w", err))
	}

	if len(apiResponse.Choices) == 0 {
		return "", errors.NewGenerationFailedError(fmt.Errorf("no choices in response"))
	}

	text := strings.TrimSpace(apiResponse.Choices[0].Message.Content)
	if text == "" {
		return "", errors.NewGenerationFailedError(fmt.Errorf("empty completion"))
	}

	return text, nil
}

// internal/common/shopify/client.go
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopify-analytics-service/internal/common/errors"
	"shopify-analytics-service/internal/common/httputil"
	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/metrics"
)

// QueryResult is the envelope every GraphQL call resolves to. Either Data is
// set, or Errors is non-empty; callers treat any non-empty Errors as a fetch
// failure.
type QueryResult struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors,omitempty"`
}

// Client talks to the Shopify Admin GraphQL API. Store domain and access
// token are per-request values, so one client serves all stores.
type Client struct {
	apiVersion string
	maxRetries int
	httpClient *httputil.Client
	logger     logger.Logger

	// baseURLOverride redirects all requests to a fixed host, for tests.
	baseURLOverride string
}

func NewClient(apiVersion string, timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	return &Client{
		apiVersion: apiVersion,
		maxRetries: maxRetries,
		httpClient: httputil.NewClient(timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "shopify-client"}),
	}
}

// NewClientWithBaseURL pins the client to a fixed endpoint instead of deriving
// it from the store domain. Used by tests against httptest servers.
func NewClientWithBaseURL(baseURL string, timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	c := NewClient("2023-10", timeout, maxRetries, log)
	c.baseURLOverride = baseURL
	return c
}

func (c *Client) endpoint(storeDomain string) string {
	if c.baseURLOverride != "" {
		return c.baseURLOverride + "/admin/api/" + c.apiVersion + "/graphql.json"
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", storeDomain, c.apiVersion)
}

// Execute runs a GraphQL query against the given store. Transport failures
// after retries come back as an error; API-reported GraphQL errors come back
// inside the envelope with a nil error.
func (c *Client) Execute(ctx context.Context, storeDomain, accessToken, query string) (*QueryResult, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, errors.NewStoreQueryFailedError(err)
	}

	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.Observe(time.Since(start).Seconds())
	}()

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewStoreAPITimeoutError()
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(storeDomain), bytes.NewReader(payload))
		if reqErr != nil {
			return nil, errors.NewStoreQueryFailedError(reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shopify-Access-Token", accessToken)

		resp, lastErr = c.httpClient.Do(req)

		if ctx.Err() != nil {
			return nil, errors.NewStoreAPITimeoutError()
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode >= 500 {
				// Server-side failure, worth another attempt.
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				resp = nil
				continue
			}
			return nil, errors.NewStoreAPIError(resp.StatusCode, string(body))
		}
	}

	if lastErr != nil {
		return nil, errors.NewStoreQueryFailedError(lastErr)
	}
	if resp == nil {
		return nil, errors.NewStoreQueryFailedError(fmt.Errorf("no successful response after retries"))
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewStoreQueryFailedError(fmt.Errorf("decode error: %w", err))
	}

	result := &QueryResult{Data: apiResponse.Data}
	for _, e := range apiResponse.Errors {
		result.Errors = append(result.Errors, e.Message)
	}

	if len(result.Errors) > 0 {
		c.logger.Warn("store API reported errors", map[string]interface{}{
			"store":      storeDomain,
			"errorCount": len(result.Errors),
			"firstError": result.Errors[0],
		})
	}

	return result, nil
}

// internal/server/handlers_test.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-analytics-service/internal/common/cache"
	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/models"
)

type stubProcessor struct {
	calls  int
	result *models.AnswerResult
}

func (s *stubProcessor) ProcessQuestion(_ context.Context, question, storeID, accessToken string) *models.AnswerResult {
	s.calls++
	return s.result
}

func newTestServer(t *testing.T, processor QuestionProcessor, answerCache *cache.AnswerCache) *httptest.Server {
	t.Helper()
	s := New(processor, answerCache, nil, ":0", 5*time.Second, 5*time.Second, logger.NewNoOpLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func defaultAnswer() *models.AnswerResult {
	query := "{ test }"
	return &models.AnswerResult{
		Answer:     "All good.",
		Confidence: models.ConfidenceHigh,
		QueryUsed:  &query,
		DataSummary: &models.ProcessedResult{
			Kind:      models.IntentInventoryAnalysis,
			Inventory: []models.InventoryItem{{SKU: "SKU-1", DisplayName: "Widget", Available: 4}},
		},
	}
}

func TestRootBanner(t *testing.T) {
	ts := newTestServer(t, &stubProcessor{result: defaultAnswer()}, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AI Shopify Analytics Service", body["message"])
	assert.Equal(t, "running", body["status"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubProcessor{result: defaultAnswer()}, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestProcessQuestion_Success(t *testing.T) {
	processor := &stubProcessor{result: defaultAnswer()}
	ts := newTestServer(t, processor, nil)

	resp, err := http.Post(ts.URL+"/api/v1/process-question", "application/json", strings.NewReader(
		`{"question": "how is my stock?", "store_id": "test.myshopify.com", "shop_access_token": "token-1"}`,
	))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body struct {
		Answer      string                 `json:"answer"`
		Confidence  string                 `json:"confidence"`
		QueryUsed   *string                `json:"query_used"`
		DataSummary map[string]interface{} `json:"data_summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "All good.", body.Answer)
	assert.Equal(t, "high", body.Confidence)
	require.NotNil(t, body.QueryUsed)
	assert.Contains(t, body.DataSummary, "inventory_items")
	assert.Equal(t, 1, processor.calls)
}

func TestProcessQuestion_ValidationFailures(t *testing.T) {
	processor := &stubProcessor{result: defaultAnswer()}
	ts := newTestServer(t, processor, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"question": "q", "store_id": "s"}`},
		{"empty question", `{"question": "", "store_id": "s", "shop_access_token": "t"}`},
		{"missing store", `{"question": "q", "shop_access_token": "t"}`},
		{"wrong type", `{"question": 42, "store_id": "s", "shop_access_token": "t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/process-question", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	assert.Equal(t, 0, processor.calls)
}

func TestProcessQuestion_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, &stubProcessor{result: defaultAnswer()}, nil)

	resp, err := http.Post(ts.URL+"/api/v1/process-question", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessQuestion_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &stubProcessor{result: defaultAnswer()}, nil)

	resp, err := http.Get(ts.URL + "/api/v1/process-question")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestProcessQuestion_CachedSecondCall(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	answerCache := cache.NewWithClient(client, time.Minute, logger.NewNoOpLogger())

	processor := &stubProcessor{result: defaultAnswer()}
	ts := newTestServer(t, processor, answerCache)

	body := `{"question": "how is my stock?", "store_id": "test.myshopify.com", "shop_access_token": "token-1"}`

	for i := 0; i < 2; i++ {
		resp, err := http.Post(ts.URL+"/api/v1/process-question", "application/json", strings.NewReader(body))
		require.NoError(t, err)

		var answer struct {
			Answer string `json:"answer"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&answer))
		resp.Body.Close()
		assert.Equal(t, "All good.", answer.Answer)
	}

	assert.Equal(t, 1, processor.calls)
}

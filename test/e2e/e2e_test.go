// test/e2e/e2e_test.go
package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-analytics-service/internal/agent"
	"shopify-analytics-service/internal/common/genai"
	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/shopify"
	synthesizeresponse "shopify-analytics-service/internal/pipeline/synthesize-response"
	"shopify-analytics-service/internal/server"
)

type answerResponse struct {
	Answer      string                 `json:"answer"`
	Confidence  string                 `json:"confidence"`
	QueryUsed   *string                `json:"query_used"`
	DataSummary map[string]interface{} `json:"data_summary"`
}

// newService wires the full stack against fake upstream endpoints and returns
// the HTTP shell.
func newService(t *testing.T, storeHandler, genaiHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	log := logger.NewNoOpLogger()

	storeUpstream := httptest.NewServer(storeHandler)
	t.Cleanup(storeUpstream.Close)
	genaiUpstream := httptest.NewServer(genaiHandler)
	t.Cleanup(genaiUpstream.Close)

	storeClient := shopify.NewClientWithBaseURL(storeUpstream.URL, 5*time.Second, 0, log)
	genaiClient := genai.NewClient(genaiUpstream.URL, "test-key", "gpt-3.5-turbo", 5*time.Second, log)

	synthesizer := synthesizeresponse.NewSynthesizer(genaiClient, synthesizeresponse.DefaultConfig(), log)
	questionAgent := agent.New(storeClient, synthesizer, log)

	srv := server.New(questionAgent, nil, nil, ":0", 5*time.Second, 5*time.Second, log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func ask(t *testing.T, ts *httptest.Server, question string) (*http.Response, answerResponse) {
	t.Helper()
	body := `{"question": ` + mustJSON(question) + `, "store_id": "demo.myshopify.com", "shop_access_token": "token-1"}`
	resp, err := http.Post(ts.URL+"/api/v1/process-question", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var answer answerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&answer))
	return resp, answer
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestLowStockQuestion_FallbackAnswer(t *testing.T) {
	storeHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"inventoryItems": {
					"edges": [
						{"node": {"sku": "SKU-1", "displayName": "Widget", "totalAvailable": 2, "tracked": true}},
						{"node": {"sku": "SKU-2", "displayName": "Gadget", "totalAvailable": 90, "tracked": true}}
					]
				}
			}
		}`))
	}
	genaiDown := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	ts := newService(t, storeHandler, genaiDown)

	resp, answer := ask(t, ts, "how is my inventory stock?")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, answer.Answer, "1 items with low stock")
	assert.Contains(t, answer.Answer, "Widget")
	assert.Equal(t, "high", answer.Confidence)
	require.NotNil(t, answer.QueryUsed)
	assert.Contains(t, *answer.QueryUsed, "inventoryItems(first: 50)")

	items, ok := answer.DataSummary["inventory_items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestStoreReportedErrors_DegradedAnswer(t *testing.T) {
	storeHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "rate limited"}]}`))
	}
	genaiHandler := func(w http.ResponseWriter, r *http.Request) {
		t.Error("generation must not run when the store fetch fails")
	}

	ts := newService(t, storeHandler, genaiHandler)

	resp, answer := ask(t, ts, "how is my inventory?")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sorry, I encountered an error while accessing your Shopify store data.", answer.Answer)
	assert.Equal(t, "low", answer.Confidence)
	require.NotNil(t, answer.QueryUsed)
	assert.Nil(t, answer.DataSummary)
}

func TestGeneratedAnswer_PrimaryPath(t *testing.T) {
	storeHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"products": {
					"edges": [
						{"node": {"title": "Widget", "totalInventory": 40, "variants": {"edges": [{"node": {}}]}}}
					]
				}
			}
		}`))
	}
	genaiHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "Widget leads your sales."}}]}`))
	}

	ts := newService(t, storeHandler, genaiHandler)

	resp, answer := ask(t, ts, "what are my top 3 selling products by sales?")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Widget leads your sales.", answer.Answer)
	require.NotNil(t, answer.QueryUsed)
	assert.Contains(t, *answer.QueryUsed, "products(first: 3, sortKey: TOTAL_INVENTORY)")

	products, ok := answer.DataSummary["products"].([]interface{})
	require.True(t, ok)
	assert.Len(t, products, 1)
}

func TestValidationRejectsMissingToken(t *testing.T) {
	ts := newService(t,
		func(w http.ResponseWriter, r *http.Request) { t.Error("store must not be called") },
		func(w http.ResponseWriter, r *http.Request) { t.Error("genai must not be called") },
	)

	resp, err := http.Post(ts.URL+"/api/v1/process-question", "application/json",
		strings.NewReader(`{"question": "q", "store_id": "s"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

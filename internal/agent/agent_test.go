// internal/agent/agent_test.go
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/shopify"
	"shopify-analytics-service/internal/models"
	synthesizeresponse "shopify-analytics-service/internal/pipeline/synthesize-response"
)

type stubStore struct {
	result *shopify.QueryResult
	err    error
	panics bool

	lastQuery string
	lastStore string
	lastToken string
}

func (s *stubStore) Execute(_ context.Context, storeDomain, accessToken, query string) (*shopify.QueryResult, error) {
	if s.panics {
		panic("store exploded")
	}
	s.lastStore = storeDomain
	s.lastToken = accessToken
	s.lastQuery = query
	return s.result, s.err
}

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Generate(context.Context, string, string, int, float64) (string, error) {
	return s.response, s.err
}

func newTestAgent(store *stubStore, generator *stubGenerator) *Agent {
	log := logger.NewNoOpLogger()
	synthesizer := synthesizeresponse.NewSynthesizer(generator, synthesizeresponse.DefaultConfig(), log)
	return New(store, synthesizer, log)
}

func TestProcessQuestion_HappyPath(t *testing.T) {
	store := &stubStore{
		result: &shopify.QueryResult{
			Data: json.RawMessage(`{
				"inventoryItems": {
					"edges": [{"node": {"sku": "SKU-1", "displayName": "Widget", "totalAvailable": 3, "tracked": true}}]
				}
			}`),
		},
	}
	generator := &stubGenerator{response: "Your widget stock is low."}
	a := newTestAgent(store, generator)

	result := a.ProcessQuestion(context.Background(), "how is my inventory stock?", "test.myshopify.com", "token-1")

	assert.Equal(t, "Your widget stock is low.", result.Answer)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	require.NotNil(t, result.QueryUsed)
	assert.Contains(t, *result.QueryUsed, "inventoryItems(first: 50)")
	require.NotNil(t, result.DataSummary)
	require.Len(t, result.DataSummary.Inventory, 1)
	assert.Equal(t, "SKU-1", result.DataSummary.Inventory[0].SKU)

	assert.Equal(t, "test.myshopify.com", store.lastStore)
	assert.Equal(t, "token-1", store.lastToken)
}

func TestProcessQuestion_StoreTransportError(t *testing.T) {
	store := &stubStore{err: fmt.Errorf("connection refused")}
	a := newTestAgent(store, &stubGenerator{response: "unused"})

	result := a.ProcessQuestion(context.Background(), "how is my inventory?", "test.myshopify.com", "token-1")

	assert.Equal(t, "Sorry, I encountered an error while accessing your Shopify store data.", result.Answer)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	require.NotNil(t, result.QueryUsed)
	assert.Nil(t, result.DataSummary)
}

func TestProcessQuestion_StoreReportedErrors(t *testing.T) {
	store := &stubStore{
		result: &shopify.QueryResult{Errors: []string{"Throttled"}},
	}
	a := newTestAgent(store, &stubGenerator{response: "unused"})

	result := a.ProcessQuestion(context.Background(), "show my sales", "test.myshopify.com", "token-1")

	assert.Equal(t, "Sorry, I encountered an error while accessing your Shopify store data.", result.Answer)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	require.NotNil(t, result.QueryUsed)
	assert.Nil(t, result.DataSummary)
}

func TestProcessQuestion_PanicRecovery(t *testing.T) {
	store := &stubStore{panics: true}
	a := newTestAgent(store, &stubGenerator{response: "unused"})

	result := a.ProcessQuestion(context.Background(), "how is my inventory?", "test.myshopify.com", "token-1")

	assert.Equal(t, "Sorry, I encountered an error while processing your question.", result.Answer)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	assert.Nil(t, result.QueryUsed)
	assert.Nil(t, result.DataSummary)
}

func TestProcessQuestion_FallbackAnswerOnGenerationError(t *testing.T) {
	store := &stubStore{
		result: &shopify.QueryResult{
			Data: json.RawMessage(`{
				"inventoryItems": {
					"edges": [{"node": {"sku": "SKU-1", "displayName": "Widget", "totalAvailable": 3, "tracked": true}}]
				}
			}`),
		},
	}
	generator := &stubGenerator{err: fmt.Errorf("quota exceeded")}
	a := newTestAgent(store, generator)

	result := a.ProcessQuestion(context.Background(), "how is my inventory stock?", "test.myshopify.com", "token-1")

	assert.Contains(t, result.Answer, "low stock")
	assert.Contains(t, result.Answer, "Widget")
	require.NotNil(t, result.DataSummary)
}

// internal/models/intent.go
package models

// IntentType is the closed set of analytics question categories the service
// understands. Adding a variant requires a keyword list (classify-intent), a
// query template (generate-query) and a result shape (process-result).
type IntentType string

const (
	IntentInventoryAnalysis IntentType = "inventory_analysis"
	IntentSalesAnalysis     IntentType = "sales_analysis"
	IntentCustomerAnalysis  IntentType = "customer_analysis"
	IntentProductAnalysis   IntentType = "product_analysis"
	IntentReorderSuggestion IntentType = "reorder_suggestion"
	IntentTrendAnalysis     IntentType = "trend_analysis"
)

// IntentTypes lists every intent in declaration order. The classifier
// tie-breaks on this order, so it must stay stable.
var IntentTypes = []IntentType{
	IntentInventoryAnalysis,
	IntentSalesAnalysis,
	IntentCustomerAnalysis,
	IntentProductAnalysis,
	IntentReorderSuggestion,
	IntentTrendAnalysis,
}

// Entity keys produced by the classifier. The set is known but open: query
// templates fall back to per-intent defaults for absent keys.
const (
	EntityTimePeriod  = "time_period"
	EntityProductName = "product_name"
	EntityTopN        = "top_n"
)

// IntentClassification is the classifier's output. Built once per question
// and read-only afterwards.
type IntentClassification struct {
	IntentType IntentType        `json:"intentType"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

// GeneratedQuery carries the GraphQL document sent to the store API plus the
// entity values that were substituted into it. Parameters exist for logging
// and debugging only; nothing downstream reads them.
type GeneratedQuery struct {
	Query      string            `json:"query"`
	Parameters map[string]string `json:"parameters"`
}

// Confidence labels returned to callers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ConfidenceLabel maps a classifier confidence score to the three-level label
// exposed in responses.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence > 0.8:
		return ConfidenceHigh
	case confidence > 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// AnswerResult is the final pipeline output for one question. Constructed
// once, returned, discarded.
type AnswerResult struct {
	Answer      string           `json:"answer"`
	Confidence  string           `json:"confidence"`
	QueryUsed   *string          `json:"query_used"`
	DataSummary *ProcessedResult `json:"data_summary"`
}

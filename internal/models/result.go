// internal/models/result.go
package models

import "encoding/json"

// InventoryItem is one shaped inventory record.
type InventoryItem struct {
	SKU         string `json:"sku"`
	DisplayName string `json:"display_name"`
	Available   int    `json:"available"`
	Tracked     bool   `json:"tracked"`
}

// SalesProduct is one shaped product record for sales analysis; Variants is a
// count, not the variant list.
type SalesProduct struct {
	Title          string `json:"title"`
	TotalInventory int    `json:"total_inventory"`
	Variants       int    `json:"variants"`
}

// CustomerSummary is one shaped customer record.
type CustomerSummary struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OrdersCount int    `json:"orders_count"`
	TotalSpent  string `json:"total_spent"`
}

// ProductDetail is one shaped product record for product analysis.
type ProductDetail struct {
	Title          string `json:"title"`
	ProductType    string `json:"product_type"`
	Vendor         string `json:"vendor"`
	TotalInventory int    `json:"total_inventory"`
}

// ReorderVariant is a variant-level stock record inside a reorder suggestion.
type ReorderVariant struct {
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// ReorderProduct is one shaped reorder suggestion; Variants holds at most the
// first 5 variants.
type ReorderProduct struct {
	Title          string           `json:"title"`
	TotalInventory int              `json:"total_inventory"`
	Variants       []ReorderVariant `json:"variants"`
}

// OrderSummary is one shaped order record for trend analysis.
type OrderSummary struct {
	Name           string `json:"name"`
	CreatedAt      string `json:"created_at"`
	TotalPrice     string `json:"total_price"`
	LineItemsCount int    `json:"line_items_count"`
}

// ProcessedResult is the tagged union of per-intent summary shapes produced by
// the result processor. Exactly one collection is populated, selected by Kind;
// Message is the "no data" sentinel and wins over everything else. Each
// collection holds at most 10 records.
type ProcessedResult struct {
	Kind IntentType

	Message     string
	Inventory   []InventoryItem
	Sales       []SalesProduct
	Customers   []CustomerSummary
	Products    []ProductDetail
	Reorder     []ReorderProduct
	Orders      []OrderSummary
	RawDataKeys []string
}

// MarshalJSON renders the union under the per-intent key callers expect
// (sales and product analysis both serialize under "products"). Nil slices
// encode as empty arrays so consumers never see null collections.
func (r ProcessedResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(map[string]string{"message": r.Message})
	}

	switch r.Kind {
	case IntentInventoryAnalysis:
		return json.Marshal(map[string][]InventoryItem{
			"inventory_items": emptyIfNil(r.Inventory),
		})
	case IntentSalesAnalysis:
		return json.Marshal(map[string][]SalesProduct{
			"products": emptyIfNil(r.Sales),
		})
	case IntentCustomerAnalysis:
		return json.Marshal(map[string][]CustomerSummary{
			"customers": emptyIfNil(r.Customers),
		})
	case IntentProductAnalysis:
		return json.Marshal(map[string][]ProductDetail{
			"products": emptyIfNil(r.Products),
		})
	case IntentReorderSuggestion:
		return json.Marshal(map[string][]ReorderProduct{
			"reorder_suggestions": emptyIfNil(r.Reorder),
		})
	case IntentTrendAnalysis:
		return json.Marshal(map[string][]OrderSummary{
			"orders": emptyIfNil(r.Orders),
		})
	default:
		return json.Marshal(map[string][]string{
			"raw_data_keys": emptyIfNil(r.RawDataKeys),
		})
	}
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

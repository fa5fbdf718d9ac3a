// internal/pipeline/classify-intent/keywords.go
package classifyintent

import "shopify-analytics-service/internal/models"

// intentKeywords holds the trigger phrases per intent, in declaration order.
// Scores tie-break to the first intent in models.IntentTypes, so both orders
// are part of the contract.
var intentKeywords = map[models.IntentType][]string{
	models.IntentInventoryAnalysis: {
		"inventory", "stock", "available", "quantity", "units", "out of stock",
		"low stock", "restock", "reorder", "supply", "fulfillment",
	},
	models.IntentSalesAnalysis: {
		"sales", "revenue", "orders", "selling", "top", "best", "popular",
		"performance", "trend", "growth", "decline", "revenue", "profit",
	},
	models.IntentCustomerAnalysis: {
		"customer", "repeat", "returning", "loyal", "purchase", "buyer",
		"client", "user", "segment", "behavior", "history",
	},
	models.IntentProductAnalysis: {
		"product", "item", "sku", "variant", "category", "type", "model",
		"collection", "brand", "vendor",
	},
	models.IntentReorderSuggestion: {
		"reorder", "order again", "buy more", "purchase again", "need more",
		"require", "demand", "next order",
	},
	models.IntentTrendAnalysis: {
		"trend", "pattern", "forecast", "projection", "predict", "estimate",
		"future", "next", "upcoming", "seasonal", "cyclical",
	},
}

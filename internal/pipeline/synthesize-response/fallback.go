// internal/pipeline/synthesize-response/fallback.go
package synthesizeresponse

import (
	"fmt"
	"strings"

	"shopify-analytics-service/internal/models"
)

const lowStockThreshold = 10
const fallbackSummaryLimit = 200

// fallbackResponse builds a deterministic answer from the data summary alone.
// Every lookup is default-safe; this path must not be able to fail.
func fallbackResponse(question string, result *models.ProcessedResult) string {
	questionLower := strings.ToLower(question)

	switch {
	case strings.Contains(questionLower, "inventory") || strings.Contains(questionLower, "stock"):
		return inventoryFallback(result.Inventory)

	case strings.Contains(questionLower, "top") || strings.Contains(questionLower, "best") || strings.Contains(questionLower, "sales"):
		return productsFallback(result)

	case strings.Contains(questionLower, "customer") || strings.Contains(questionLower, "repeat"):
		return customersFallback(result.Customers)

	default:
		summary := summarize(result)
		if len(summary) > fallbackSummaryLimit {
			summary = summary[:fallbackSummaryLimit]
		}
		return fmt.Sprintf("I've analyzed your Shopify data regarding '%s'. The data shows: %s... (truncated). For a more detailed analysis, I recommend checking your Shopify admin dashboard.", question, summary)
	}
}

func inventoryFallback(items []models.InventoryItem) string {
	if len(items) == 0 {
		return "I found your inventory data, but need more time to analyze it properly."
	}

	var lowStock []models.InventoryItem
	for _, item := range items {
		if item.Available < lowStockThreshold {
			lowStock = append(lowStock, item)
		}
	}

	if len(lowStock) == 0 {
		return "Your inventory looks good - no items are running low on stock."
	}

	names := make([]string, 0, 3)
	for _, item := range lowStock {
		if len(names) == 3 {
			break
		}
		names = append(names, item.DisplayName)
	}

	return fmt.Sprintf("Based on your data, you have %d items with low stock (less than 10 units). Consider reordering these soon: %s.", len(lowStock), strings.Join(names, ", "))
}

// productsFallback reads product titles out of whichever product-shaped
// collection the summary carries.
func productsFallback(result *models.ProcessedResult) string {
	var titles []string
	for _, p := range result.Sales {
		titles = append(titles, p.Title)
	}
	if titles == nil {
		for _, p := range result.Products {
			titles = append(titles, p.Title)
		}
	}

	if len(titles) == 0 {
		return "I found your product data, but need more time to analyze sales performance."
	}

	if len(titles) > 3 {
		titles = titles[:3]
	}
	return fmt.Sprintf("Your top products are: %s. These are performing well in terms of inventory.", strings.Join(titles, ", "))
}

func customersFallback(customers []models.CustomerSummary) string {
	if len(customers) == 0 {
		return "I found your customer data, but need more time to analyze customer behavior."
	}

	repeatCount := 0
	maxOrders := 0
	for _, c := range customers {
		if c.OrdersCount > 1 {
			repeatCount++
		}
		if c.OrdersCount > maxOrders {
			maxOrders = c.OrdersCount
		}
	}

	return fmt.Sprintf("You have %d repeat customers. Your most valuable customers have ordered %d times.", repeatCount, maxOrders)
}

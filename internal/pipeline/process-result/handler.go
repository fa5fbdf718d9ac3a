// internal/pipeline/process-result/handler.go
package processresult

import (
	"encoding/json"
	"sort"
	"strings"

	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/models"
)

const maxRecords = 10
const maxReorderVariants = 5

// Processor shapes raw store responses into bounded per-intent summaries.
// Missing or malformed nested fields decay to zero values, never to errors.
type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{
		logger: log.WithFields(map[string]interface{}{"stage": "process-result"}),
	}
}

// Raw payload decoding types, mirroring the Admin GraphQL edge/node nesting.

type edges[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

type money struct {
	Amount string `json:"amount"`
}

type inventoryNode struct {
	SKU            string `json:"sku"`
	DisplayName    string `json:"displayName"`
	TotalAvailable int    `json:"totalAvailable"`
	Tracked        bool   `json:"tracked"`
}

type productNode struct {
	Title          string             `json:"title"`
	ProductType    string             `json:"productType"`
	Vendor         string             `json:"vendor"`
	TotalInventory int                `json:"totalInventory"`
	Variants       edges[variantNode] `json:"variants"`
}

type variantNode struct {
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventoryQuantity"`
}

type customerNode struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	OrdersCount int    `json:"ordersCount"`
	TotalSpent  money  `json:"totalSpent"`
}

type orderNode struct {
	Name       string                 `json:"name"`
	CreatedAt  string                 `json:"createdAt"`
	TotalPrice money                  `json:"totalPrice"`
	LineItems  edges[json.RawMessage] `json:"lineItems"`
}

// Process shapes the raw response for the classified intent. An absent or
// null payload yields the "no data" sentinel.
func (p *Processor) Process(raw json.RawMessage, classification models.IntentClassification) *models.ProcessedResult {
	payload := strings.TrimSpace(string(raw))
	if payload == "" || payload == "null" || payload == "{}" {
		return &models.ProcessedResult{
			Kind:    classification.IntentType,
			Message: "No data returned from Shopify API",
		}
	}

	result := &models.ProcessedResult{Kind: classification.IntentType}

	switch classification.IntentType {
	case models.IntentInventoryAnalysis:
		result.Inventory = p.shapeInventory(raw)
	case models.IntentSalesAnalysis:
		result.Sales = p.shapeSales(raw)
	case models.IntentCustomerAnalysis:
		result.Customers = p.shapeCustomers(raw)
	case models.IntentProductAnalysis:
		result.Products = p.shapeProducts(raw)
	case models.IntentReorderSuggestion:
		result.Reorder = p.shapeReorder(raw)
	case models.IntentTrendAnalysis:
		result.Orders = p.shapeOrders(raw)
	default:
		result.RawDataKeys = p.topLevelKeys(raw)
	}

	return result
}

func (p *Processor) shapeInventory(raw json.RawMessage) []models.InventoryItem {
	var payload struct {
		InventoryItems edges[inventoryNode] `json:"inventoryItems"`
	}
	p.decode(raw, &payload)

	items := make([]models.InventoryItem, 0, maxRecords)
	for _, edge := range truncate(payload.InventoryItems.Edges, maxRecords) {
		items = append(items, models.InventoryItem{
			SKU:         edge.Node.SKU,
			DisplayName: edge.Node.DisplayName,
			Available:   edge.Node.TotalAvailable,
			Tracked:     edge.Node.Tracked,
		})
	}
	return items
}

func (p *Processor) shapeSales(raw json.RawMessage) []models.SalesProduct {
	var payload struct {
		Products edges[productNode] `json:"products"`
	}
	p.decode(raw, &payload)

	products := make([]models.SalesProduct, 0, maxRecords)
	for _, edge := range truncate(payload.Products.Edges, maxRecords) {
		products = append(products, models.SalesProduct{
			Title:          edge.Node.Title,
			TotalInventory: edge.Node.TotalInventory,
			Variants:       len(edge.Node.Variants.Edges),
		})
	}
	return products
}

func (p *Processor) shapeCustomers(raw json.RawMessage) []models.CustomerSummary {
	var payload struct {
		Customers edges[customerNode] `json:"customers"`
	}
	p.decode(raw, &payload)

	customers := make([]models.CustomerSummary, 0, maxRecords)
	for _, edge := range truncate(payload.Customers.Edges, maxRecords) {
		customers = append(customers, models.CustomerSummary{
			Name:        strings.TrimSpace(edge.Node.FirstName + " " + edge.Node.LastName),
			Email:       edge.Node.Email,
			OrdersCount: edge.Node.OrdersCount,
			TotalSpent:  edge.Node.TotalSpent.Amount,
		})
	}
	return customers
}

func (p *Processor) shapeProducts(raw json.RawMessage) []models.ProductDetail {
	var payload struct {
		Products edges[productNode] `json:"products"`
	}
	p.decode(raw, &payload)

	products := make([]models.ProductDetail, 0, maxRecords)
	for _, edge := range truncate(payload.Products.Edges, maxRecords) {
		products = append(products, models.ProductDetail{
			Title:          edge.Node.Title,
			ProductType:    edge.Node.ProductType,
			Vendor:         edge.Node.Vendor,
			TotalInventory: edge.Node.TotalInventory,
		})
	}
	return products
}

func (p *Processor) shapeReorder(raw json.RawMessage) []models.ReorderProduct {
	var payload struct {
		Products edges[productNode] `json:"products"`
	}
	p.decode(raw, &payload)

	products := make([]models.ReorderProduct, 0, maxRecords)
	for _, edge := range truncate(payload.Products.Edges, maxRecords) {
		variants := make([]models.ReorderVariant, 0, maxReorderVariants)
		for _, v := range truncate(edge.Node.Variants.Edges, maxReorderVariants) {
			variants = append(variants, models.ReorderVariant{
				SKU:               v.Node.SKU,
				InventoryQuantity: v.Node.InventoryQuantity,
			})
		}
		products = append(products, models.ReorderProduct{
			Title:          edge.Node.Title,
			TotalInventory: edge.Node.TotalInventory,
			Variants:       variants,
		})
	}
	return products
}

func (p *Processor) shapeOrders(raw json.RawMessage) []models.OrderSummary {
	var payload struct {
		Orders edges[orderNode] `json:"orders"`
	}
	p.decode(raw, &payload)

	orders := make([]models.OrderSummary, 0, maxRecords)
	for _, edge := range truncate(payload.Orders.Edges, maxRecords) {
		orders = append(orders, models.OrderSummary{
			Name:           edge.Node.Name,
			CreatedAt:      edge.Node.CreatedAt,
			TotalPrice:     edge.Node.TotalPrice.Amount,
			LineItemsCount: len(edge.Node.LineItems.Edges),
		})
	}
	return orders
}

// topLevelKeys lists the payload's top-level keys, sorted for determinism.
func (p *Processor) topLevelKeys(raw json.RawMessage) []string {
	var payload map[string]json.RawMessage
	p.decode(raw, &payload)

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decode tolerates malformed payloads; the shaping loops then run over
// whatever decoded, which is the zero value in the worst case.
func (p *Processor) decode(raw json.RawMessage, target interface{}) {
	if err := json.Unmarshal(raw, target); err != nil {
		p.logger.Warn("payload decode failed", map[string]interface{}{"error": err.Error()})
	}
}

func truncate[T any](s []T, limit int) []T {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

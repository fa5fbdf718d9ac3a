// internal/pipeline/generate-query/handler.go
package generatequery

import (
	"fmt"
	"regexp"
	"strings"

	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/models"
)

// Generator turns an intent classification into an Admin GraphQL query.
// It never fails: every intent has a template and unknown values fall back
// to a minimal order listing.
type Generator struct {
	logger logger.Logger
}

func NewGenerator(log logger.Logger) *Generator {
	return &Generator{
		logger: log.WithFields(map[string]interface{}{"stage": "generate-query"}),
	}
}

var timeValuePattern = regexp.MustCompile(`(\d+)\s+(day|days|week|weeks|month|months)`)

// defaultQuery is the safety net for intents outside the known set.
const defaultQuery = `{
  orders(first: 10) {
    edges {
      node {
        id
        name
      }
    }
  }
}`

// Generate builds the query and parameter set for the classified intent.
func (g *Generator) Generate(classification models.IntentClassification) models.GeneratedQuery {
	var query models.GeneratedQuery

	switch classification.IntentType {
	case models.IntentInventoryAnalysis:
		query = g.inventoryQuery(classification.Entities)
	case models.IntentSalesAnalysis:
		query = g.salesQuery(classification.Entities)
	case models.IntentCustomerAnalysis:
		query = g.customerQuery(classification.Entities)
	case models.IntentProductAnalysis:
		query = g.productQuery(classification.Entities)
	case models.IntentReorderSuggestion:
		query = g.reorderQuery(classification.Entities)
	case models.IntentTrendAnalysis:
		query = g.trendQuery(classification.Entities)
	default:
		query = models.GeneratedQuery{
			Query:      defaultQuery,
			Parameters: map[string]string{},
		}
	}

	g.logger.Debug("query generated", map[string]interface{}{
		"intent":      string(classification.IntentType),
		"queryLength": len(query.Query),
	})

	return query
}

func (g *Generator) inventoryQuery(entities map[string]string) models.GeneratedQuery {
	timePeriod := entityOrDefault(entities, models.EntityTimePeriod, "30 days")

	timeValue := "30"
	if m := timeValuePattern.FindStringSubmatch(timePeriod); m != nil {
		timeValue = m[1]
	}

	query := `{
  inventoryItems(first: 50) {
    edges {
      node {
        id
        sku
        tracked
        totalAvailable
        displayName
      }
    }
  }
}`

	return models.GeneratedQuery{
		Query: query,
		Parameters: map[string]string{
			"time_period": timePeriod,
			"time_value":  timeValue,
		},
	}
}

func (g *Generator) salesQuery(entities map[string]string) models.GeneratedQuery {
	topN := entityOrDefault(entities, models.EntityTopN, "5")
	timePeriod := entityOrDefault(entities, models.EntityTimePeriod, "7 days")

	query := fmt.Sprintf(`{
  products(first: %s, sortKey: TOTAL_INVENTORY) {
    edges {
      node {
        id
        title
        totalInventory
        variants(first: 5) {
          edges {
            node {
              id
              price
              displayName
            }
          }
        }
      }
    }
  }
}`, topN)

	return models.GeneratedQuery{
		Query: query,
		Parameters: map[string]string{
			"top_n":       topN,
			"time_period": timePeriod,
		},
	}
}

func (g *Generator) customerQuery(entities map[string]string) models.GeneratedQuery {
	timePeriod := entityOrDefault(entities, models.EntityTimePeriod, "90 days")

	query := `{
  customers(first: 50, sortKey: CREATED_AT) {
    edges {
      node {
        id
        firstName
        lastName
        email
        ordersCount
        totalSpent {
          amount
          currencyCode
        }
        lastOrderDate
      }
    }
  }
}`

	return models.GeneratedQuery{
		Query: query,
		Parameters: map[string]string{
			"time_period": timePeriod,
		},
	}
}

func (g *Generator) productQuery(entities map[string]string) models.GeneratedQuery {
	productName := entities[models.EntityProductName]

	query := fmt.Sprintf(`{
  products(first: 20, query: "%s") {
    edges {
      node {
        id
        title
        handle
        productType
        vendor
        status
        createdAt
        updatedAt
        totalInventory
        variants(first: 10) {
          edges {
            node {
              id
              sku
              price
              inventoryQuantity
              displayName
            }
          }
        }
      }
    }
  }
}`, escapeQueryArgument(productName))

	return models.GeneratedQuery{
		Query: query,
		Parameters: map[string]string{
			"product_name": productName,
		},
	}
}

func (g *Generator) reorderQuery(entities map[string]string) models.GeneratedQuery {
	timePeriod := entityOrDefault(entities, models.EntityTimePeriod, "30 days")

	query := `{
  products(first: 20, sortKey: TOTAL_INVENTORY) {
    edges {
      node {
        id
        title
        totalInventory
        variants(first: 5) {
          edges {
            node {
              id
              sku
              inventoryQuantity
              displayName
            }
          }
        }
      }
    }
  }
}`

	return models.GeneratedQuery{
		Query: query,
		Parameters: map[string]string{
			"time_period": timePeriod,
		},
	}
}

func (g *Generator) trendQuery(entities map[string]string) models.GeneratedQuery {
	timePeriod := entityOrDefault(entities, models.EntityTimePeriod, "30 days")

	query := `{
  orders(first: 50, sortKey: CREATED_AT) {
    edges {
      node {
        id
        name
        createdAt
        totalPrice {
          amount
          currencyCode
        }
        lineItems(first: 10) {
          edges {
            node {
              title
              quantity
              variant {
                id
                sku
                product {
                  id
                  title
                }
              }
            }
          }
        }
      }
    }
  }
}`

	return models.GeneratedQuery{
		Query: query,
		Parameters: map[string]string{
			"time_period": timePeriod,
		},
	}
}

func entityOrDefault(entities map[string]string, key, fallback string) string {
	if v, ok := entities[key]; ok && v != "" {
		return v
	}
	return fallback
}

// escapeQueryArgument keeps extracted product names from breaking out of the
// quoted query argument.
func escapeQueryArgument(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// internal/pipeline/classify-intent/entities.go
package classifyintent

import (
	"regexp"
	"strings"

	"shopify-analytics-service/internal/models"
)

// Time-period patterns match against the lower-cased question. The bare
// "<n> <unit>" form runs first so "last 2 weeks" resolves via the same
// capture as "2 weeks".
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s+(day|days|week|weeks|month|months|year|years)`),
	regexp.MustCompile(`last\s+(\d+)\s+(day|days|week|weeks|month|months|year|years)`),
	regexp.MustCompile(`next\s+(\d+)\s+(day|days|week|weeks|month|months|year|years)`),
	regexp.MustCompile(`past\s+(\d+)\s+(day|days|week|weeks|month|months|year|years)`),
	regexp.MustCompile(`previous\s+(\d+)\s+(day|days|week|weeks|month|months|year|years)`),
}

// Product and top-N patterns match case-insensitively against the original
// question so captured names keep their casing.
var productPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)product\s+([A-Za-z0-9\s\-_]+)`),
	regexp.MustCompile(`(?i)item\s+([A-Za-z0-9\s\-_]+)`),
	regexp.MustCompile(`(?i)"([^"]+)"`),
}

var topNPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)top\s+(\d+)`),
	regexp.MustCompile(`(?i)best\s+(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+best`),
}

// extractEntities pulls time periods, product names and top-N counts out of
// the question. Within each category the first matching pattern wins.
func extractEntities(question string) map[string]string {
	entities := make(map[string]string)
	questionLower := strings.ToLower(question)

	for _, pattern := range timePatterns {
		if m := pattern.FindStringSubmatch(questionLower); m != nil {
			entities[models.EntityTimePeriod] = m[1] + " " + m[2]
			break
		}
	}

	for _, pattern := range productPatterns {
		if m := pattern.FindStringSubmatch(question); m != nil {
			entities[models.EntityProductName] = strings.TrimSpace(m[1])
			break
		}
	}

	for _, pattern := range topNPatterns {
		if m := pattern.FindStringSubmatch(question); m != nil {
			entities[models.EntityTopN] = m[1]
			break
		}
	}

	return entities
}

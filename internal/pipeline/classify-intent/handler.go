// internal/pipeline/classify-intent/handler.go
package classifyintent

import (
	"regexp"
	"strings"

	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/models"
)

// Classifier scores free-text questions against the fixed intent vocabulary
// and extracts structured entities. It never fails: a question matching no
// trigger at all still yields the first-declared intent with confidence 0.
// All state is built once in NewClassifier and read-only afterwards, so a
// single instance is safe for concurrent use.
type Classifier struct {
	triggers map[models.IntentType][]*regexp.Regexp
	logger   logger.Logger
}

func NewClassifier(log logger.Logger) *Classifier {
	triggers := make(map[models.IntentType][]*regexp.Regexp, len(intentKeywords))
	for intent, keywords := range intentKeywords {
		compiled := make([]*regexp.Regexp, 0, len(keywords))
		for _, kw := range keywords {
			// Whole-word match: "restocking" must not count for "stock".
			compiled = append(compiled, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		triggers[intent] = compiled
	}

	return &Classifier{
		triggers: triggers,
		logger:   log.WithFields(map[string]interface{}{"stage": "classify-intent"}),
	}
}

// Classify scores the question against every intent and extracts entities.
func (c *Classifier) Classify(question string) models.IntentClassification {
	questionLower := strings.ToLower(question)

	scores := make(map[models.IntentType]int, len(models.IntentTypes))
	for _, intent := range models.IntentTypes {
		score := 0
		for _, trigger := range c.triggers[intent] {
			score += len(trigger.FindAllStringIndex(questionLower, -1))
		}
		scores[intent] = score
	}

	// Argmax in declaration order: replace only on a strictly greater score
	// so ties, including the all-zero case, resolve to the first intent.
	selected := models.IntentTypes[0]
	maxScore := scores[selected]
	total := 0
	for _, intent := range models.IntentTypes {
		total += scores[intent]
		if scores[intent] > maxScore {
			selected = intent
			maxScore = scores[intent]
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(maxScore) / float64(total)
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	entities := extractEntities(question)

	c.logger.Debug("question classified", map[string]interface{}{
		"intent":      string(selected),
		"confidence":  confidence,
		"entityCount": len(entities),
	})

	return models.IntentClassification{
		IntentType: selected,
		Confidence: confidence,
		Entities:   entities,
	}
}

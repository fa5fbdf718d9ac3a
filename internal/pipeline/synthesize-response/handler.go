// internal/pipeline/synthesize-response/handler.go
package synthesizeresponse

import (
	"context"
	"encoding/json"
	"strings"

	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/metrics"
	"shopify-analytics-service/internal/models"
)

const systemPrompt = "You are an AI assistant that helps Shopify store owners understand their analytics data. Provide clear, business-friendly explanations with actionable insights."

// TextGenerator produces a free-text completion for a system/user prompt pair.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error)
}

// Synthesizer turns a shaped data summary into a human-readable answer. The
// primary path goes through the text generator; any failure there routes to a
// deterministic template fallback, so Synthesize itself never fails.
type Synthesizer struct {
	generator TextGenerator
	config    Config
	logger    logger.Logger
}

func NewSynthesizer(generator TextGenerator, config Config, log logger.Logger) *Synthesizer {
	return &Synthesizer{
		generator: generator,
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"stage": "synthesize-response"}),
	}
}

// Synthesize produces the answer text for the question and its data summary.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, result *models.ProcessedResult) string {
	prompt := buildPrompt(question, result)

	answer, err := s.generator.Generate(ctx, systemPrompt, prompt, s.config.MaxTokens, s.config.Temperature)
	if err != nil {
		s.logger.Warn("generation failed, using fallback response", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.ResponseFallbacks.Inc()
		return fallbackResponse(question, result)
	}

	return answer
}

func buildPrompt(question string, result *models.ProcessedResult) string {
	parts := []string{
		"You are an AI assistant for a Shopify store analytics tool.",
		`The user asked: "` + question + `"`,
		"",
		"Here is the relevant data from their Shopify store:",
		summarize(result),
		"",
		"Please provide a clear, business-friendly explanation of the data that answers the user's question.",
		"Use simple language and focus on actionable insights.",
	}
	return strings.Join(parts, "\n")
}

// summarize renders the data summary for prompt embedding. Marshalling a
// ProcessedResult cannot fail, but the fallback keeps the contract total.
func summarize(result *models.ProcessedResult) string {
	data, err := json.Marshal(result)
	if err != nil {
		return "{}"
	}
	return string(data)
}

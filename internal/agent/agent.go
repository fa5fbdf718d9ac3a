// internal/agent/agent.go
package agent

import (
	"context"
	"time"

	"shopify-analytics-service/internal/common/errors"
	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/metrics"
	"shopify-analytics-service/internal/common/shopify"
	"shopify-analytics-service/internal/models"
	classifyintent "shopify-analytics-service/internal/pipeline/classify-intent"
	generatequery "shopify-analytics-service/internal/pipeline/generate-query"
	processresult "shopify-analytics-service/internal/pipeline/process-result"
	synthesizeresponse "shopify-analytics-service/internal/pipeline/synthesize-response"
)

const (
	storeErrorAnswer   = "Sorry, I encountered an error while accessing your Shopify store data."
	genericErrorAnswer = "Sorry, I encountered an error while processing your question."
)

// StoreDataSource runs a query against a store and returns the raw envelope.
type StoreDataSource interface {
	Execute(ctx context.Context, storeDomain, accessToken, query string) (*shopify.QueryResult, error)
}

// Agent drives one question through the full pipeline: classify, generate,
// fetch, shape, synthesize. ProcessQuestion always returns a usable answer;
// failures degrade to apologetic responses instead of propagating.
type Agent struct {
	classifier  *classifyintent.Classifier
	generator   *generatequery.Generator
	processor   *processresult.Processor
	synthesizer *synthesizeresponse.Synthesizer
	store       StoreDataSource
	logger      logger.Logger
}

func New(store StoreDataSource, synthesizer *synthesizeresponse.Synthesizer, log logger.Logger) *Agent {
	return &Agent{
		classifier:  classifyintent.NewClassifier(log),
		generator:   generatequery.NewGenerator(log),
		processor:   processresult.NewProcessor(log),
		synthesizer: synthesizer,
		store:       store,
		logger:      log.WithFields(map[string]interface{}{"component": "agent"}),
	}
}

// ProcessQuestion answers a natural-language question about the given store.
func (a *Agent) ProcessQuestion(ctx context.Context, question, storeID, accessToken string) (result *models.AnswerResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("pipeline panicked", map[string]interface{}{"panic": r})
			metrics.QuestionsFailed.WithLabelValues("pipeline", string(errors.ErrCodeInternal)).Inc()
			result = &models.AnswerResult{
				Answer:     genericErrorAnswer,
				Confidence: models.ConfidenceLow,
			}
		}
	}()

	classification := a.classifier.Classify(question)
	a.logger.Info("intent classified", map[string]interface{}{
		"intent":     string(classification.IntentType),
		"confidence": classification.Confidence,
	})

	query := a.generator.Generate(classification)

	envelope, err := a.store.Execute(ctx, storeID, accessToken, query.Query)
	if err != nil || len(envelope.Errors) > 0 {
		if err != nil {
			stderr := errors.Normalize(err)
			a.logger.WithError(err).Error("store query failed", map[string]interface{}{
				"store": storeID,
			})
			metrics.QuestionsFailed.WithLabelValues("fetch", string(stderr.Code)).Inc()
		} else {
			a.logger.Error("store reported query errors", map[string]interface{}{
				"store":      storeID,
				"firstError": envelope.Errors[0],
			})
			metrics.QuestionsFailed.WithLabelValues("fetch", string(errors.ErrCodeStoreAPIError)).Inc()
		}
		return &models.AnswerResult{
			Answer:     storeErrorAnswer,
			Confidence: models.ConfidenceLow,
			QueryUsed:  &query.Query,
		}
	}

	processed := a.processor.Process(envelope.Data, classification)

	answer := a.synthesizer.Synthesize(ctx, question, processed)

	label := models.ConfidenceLabel(classification.Confidence)
	metrics.QuestionsProcessed.WithLabelValues(string(classification.IntentType), label).Inc()
	metrics.PipelineDuration.WithLabelValues(string(classification.IntentType)).Observe(time.Since(start).Seconds())

	return &models.AnswerResult{
		Answer:      answer,
		Confidence:  label,
		QueryUsed:   &query.Query,
		DataSummary: processed,
	}
}

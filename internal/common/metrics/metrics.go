// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_questions_processed_total",
			Help: "Total number of questions answered, by intent and confidence label",
		},
		[]string{"intent", "confidence"},
	)

	QuestionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_questions_failed_total",
			Help: "Total number of questions that ended in a degraded answer",
		},
		[]string{"stage", "error_code"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "analytics_pipeline_duration_seconds",
			Help: "Duration of the full question pipeline in seconds",
		},
		[]string{"intent"},
	)

	ResponseFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_response_fallbacks_total",
			Help: "Times the deterministic fallback synthesizer produced the answer",
		},
	)

	StoreQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "analytics_store_query_duration_seconds",
			Help: "Duration of store GraphQL calls in seconds",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_answer_cache_requests_total",
			Help: "Answer cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

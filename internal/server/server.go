// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopify-analytics-service/internal/common/cache"
	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/observability"
	"shopify-analytics-service/internal/models"
)

const serviceName = "AI Shopify Analytics Service"

// QuestionProcessor answers one question; it never returns an error because
// the pipeline degrades internally.
type QuestionProcessor interface {
	ProcessQuestion(ctx context.Context, question, storeID, accessToken string) *models.AnswerResult
}

// Server is the HTTP shell around the question pipeline. The answer cache is
// optional; a nil cache disables it.
type Server struct {
	processor  QuestionProcessor
	cache      *cache.AnswerCache
	obs        *observability.Observability
	logger     logger.Logger
	httpServer *http.Server
}

func New(processor QuestionProcessor, answerCache *cache.AnswerCache, obs *observability.Observability, addr string, readTimeout, writeTimeout time.Duration, log logger.Logger) *Server {
	s := &Server{
		processor: processor,
		cache:     answerCache,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "http-server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/process-question", s.handleProcessQuestion)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return s
}

// Handler exposes the routing mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}

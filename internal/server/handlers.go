// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type questionRequest struct {
	Question        string `json:"question"`
	StoreID         string `json:"store_id"`
	ShopAccessToken string `json:"shop_access_token"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": serviceName,
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleProcessQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	log := s.logger.WithFields(map[string]interface{}{"requestID": requestID})

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body"})
		return
	}

	if err := validateQuestionRequest(payload); err != nil {
		log.Warn("request rejected", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	req := questionRequest{
		Question:        payload["question"].(string),
		StoreID:         payload["store_id"].(string),
		ShopAccessToken: payload["shop_access_token"].(string),
	}

	log.Info("processing question", map[string]interface{}{
		"store":          req.StoreID,
		"questionLength": len(req.Question),
	})

	if s.cache != nil {
		if cached := s.cache.Get(r.Context(), req.StoreID, req.Question); cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	start := time.Now()
	result := s.processor.ProcessQuestion(r.Context(), req.Question, req.StoreID, req.ShopAccessToken)
	if s.obs != nil {
		s.obs.RecordQuestionProcessed(r.Context(), result.Confidence)
		s.obs.RecordQuestionDuration(r.Context(), time.Since(start), result.Confidence)
	}

	body, err := json.Marshal(result)
	if err != nil {
		log.WithError(err).Error("response serialization failed", nil)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	if s.cache != nil {
		s.cache.Set(r.Context(), req.StoreID, req.Question, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

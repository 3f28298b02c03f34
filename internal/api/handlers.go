// Package api exposes the HTTP surface: the public tracking and quiz
// endpoints hit by simulation recipients, and the management API used to
// run campaigns.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ignite/phishing-trainer/internal/quiz"
	"github.com/ignite/phishing-trainer/internal/service/campaign"
	"github.com/ignite/phishing-trainer/internal/service/recorder"
	"github.com/ignite/phishing-trainer/internal/templates"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	campaigns *campaign.Service
	recorder  *recorder.Service
	bank      *quiz.Bank
	renderer  *templates.Engine

	// questionsPerQuiz controls how many questions each campaign's quiz
	// draws from the bank.
	questionsPerQuiz int
}

// NewHandlers creates a new Handlers instance
func NewHandlers(campaigns *campaign.Service, rec *recorder.Service, bank *quiz.Bank, renderer *templates.Engine, questionsPerQuiz int) *Handlers {
	return &Handlers{
		campaigns:        campaigns,
		recorder:         rec,
		bank:             bank,
		renderer:         renderer,
		questionsPerQuiz: questionsPerQuiz,
	}
}

// HealthCheck returns service health status
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

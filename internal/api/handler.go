// Package api provides HTTP handlers for the tutoring API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/IanScripts/Learnbot-AiTutor/internal/tutor"
)

// Handler provides common handler utilities.
type Handler struct {
	svc *tutor.Service
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(svc *tutor.Service) *Handler {
	return &Handler{svc: svc}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// serviceError maps orchestrator errors onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tutor.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, tutor.ErrNotFound):
		Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, tutor.ErrNoChallenge):
		Error(w, http.StatusConflict, "no active challenge, start one first")
	case errors.Is(err, tutor.ErrNoProblem):
		Error(w, http.StatusConflict, "no active problem, start one first")
	case errors.Is(err, tutor.ErrUpstream):
		Error(w, http.StatusServiceUnavailable, tutor.ErrUpstream.Error())
	default:
		slog.Error("Unhandled service error", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

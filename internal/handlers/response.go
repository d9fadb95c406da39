package handlers

import (
	"encoding/json"
	"net/http"

	"medbot-backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(title, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     title,
		Message:   message,
		Success:   false,
		RequestID: r.Header.Get("X-Request-ID"),
	}
}

// NotFound and MethodNotAllowed keep chi's fallbacks in the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResp("Not found", "The requested resource does not exist.", r))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResp("Method not allowed", "This endpoint does not support "+r.Method+".", r))
}

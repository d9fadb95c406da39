package middleware

import (
	"encoding/json"
	"net/http"

	"medbot-backend/internal/models"
)

func writeError(w http.ResponseWriter, status int, title, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:     title,
		Message:   message,
		Success:   false,
		RequestID: r.Header.Get("X-Request-ID"),
	})
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"medbot-backend/internal/logger"
)

const maxRequestIDLength = 128

// RequestID tags every request with an id, reusing a sane inbound X-Request-ID.
// The id is echoed in the response and carried by the request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		r.Header.Set("X-Request-ID", id)
		w.Header().Set("X-Request-ID", id)

		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

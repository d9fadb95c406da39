package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medbot-backend/internal/handlers"
	"medbot-backend/internal/middleware"
)

// New builds the HTTP surface. chatLimiter may be nil to disable rate limiting.
func New(
	chatHandler *handlers.ChatHandler,
	serviceHandler *handlers.ServiceHandler,
	chatLimiter middleware.Limiter,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Web interface
	r.Get("/", serviceHandler.Index)
	r.Handle("/static/*", serviceHandler.Static())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", serviceHandler.Health)
		r.Get("/info", serviceHandler.Info)

		r.Group(func(r chi.Router) {
			if chatLimiter != nil {
				r.Use(middleware.RateLimit(chatLimiter))
			}
			r.Post("/chat", chatHandler.Chat)
		})
	})

	return r
}

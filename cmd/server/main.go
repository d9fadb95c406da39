package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medbot-backend/internal/config"
	"medbot-backend/internal/database"
	"medbot-backend/internal/handlers"
	"medbot-backend/internal/logger"
	"medbot-backend/internal/middleware"
	"medbot-backend/internal/router"
	"medbot-backend/internal/services"
)

func main() {
	ctx := context.Background()

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info(ctx, "🚀 Starting MedBot Backend...")
	logger.Info(ctx, "✓ Environment variables loaded", "env", cfg.Env)
	if cfg.IsProduction() && cfg.UsesDefaultSecret() {
		logger.Warn(ctx, "SECRET_KEY is still the development default")
	}

	// ──── Step 2: Initialize Gemini Client ────
	// Without a client the service still starts; chat answers 503.
	var (
		generator handlers.Generator
		vision    services.VisionModel
	)
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiVisionModel,
		cfg.GeminiConcurrentReqs,
	)
	if err != nil {
		logger.Error(ctx, "✗ Gemini client initialization failed", err)
	} else {
		defer geminiService.Close()
		generator = geminiService
		vision = geminiService
		logger.Info(ctx, "✓ Gemini client initialized", "text_model", cfg.GeminiModel, "vision_model", cfg.GeminiVisionModel)
	}

	// ──── Step 3: Initialize Speech Recognition ────
	var recognizer services.SpeechRecognizer
	if cfg.SpeechAPIKey != "" {
		recognizer = services.NewGoogleSpeechClient(cfg.SpeechAPIURL, cfg.SpeechAPIKey, cfg.SpeechLanguage)
		logger.Info(ctx, "✓ Speech recognition configured", "language", cfg.SpeechLanguage)
	} else {
		logger.Warn(ctx, "✗ SPEECH_API_KEY not set, audio input will not be transcribed")
	}

	// ──── Step 4: Initialize Rate Limiter ────
	var chatLimiter middleware.Limiter
	if cfg.RateLimitPerMinute > 0 {
		chatLimiter = newChatLimiter(ctx, cfg)
	}

	// ──── Initialize Handlers ────
	policy := handlers.UploadPolicy{
		MaxFileSize:     cfg.MaxFileSize,
		ImageExtensions: cfg.AllowedImageExtensions,
		AudioExtensions: cfg.AllowedAudioExtensions,
	}
	imageExtractor := services.NewImageExtractor(vision)
	audioExtractor := services.NewAudioExtractor(recognizer, "")

	chatHandler := handlers.NewChatHandler(generator, imageExtractor, audioExtractor, policy)
	serviceHandler := handlers.NewServiceHandler(handlers.Readiness{
		TextModel:   generator != nil,
		VisionModel: imageExtractor.Ready(),
		Speech:      audioExtractor.Ready(),
	}, policy, cfg.StaticDir)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(chatHandler, serviceHandler, chatLimiter, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info(ctx, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, fmt.Sprintf("✓ MedBot Backend ready on http://localhost:%s", cfg.Port))
	logger.Info(ctx, fmt.Sprintf("  API docs: http://localhost:%s/api/info", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error(ctx, "Server error", err)
		os.Exit(1)
	}
}

// newChatLimiter prefers the shared Redis window and falls back to a
// per-process one when Redis is not configured or unreachable.
func newChatLimiter(ctx context.Context, cfg *config.Config) middleware.Limiter {
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err == nil {
			logger.Info(ctx, "✓ Redis connected, chat rate limit shared", "per_minute", cfg.RateLimitPerMinute)
			return middleware.NewRedisRateLimiter(client, cfg.RateLimitPerMinute, time.Minute)
		}
		logger.Error(ctx, "✗ Redis connection failed, using in-memory rate limit", err)
	}

	logger.Info(ctx, "✓ In-memory chat rate limit", "per_minute", cfg.RateLimitPerMinute)
	return middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
}

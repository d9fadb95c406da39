package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSecretKey = "dev-secret-key"

type Config struct {
	// Server
	Port      string
	Env       string
	SecretKey string
	StaticDir string

	// Logging
	LogLevel  string
	LogFormat string

	// Uploads
	MaxFileSize            int64
	AllowedImageExtensions []string
	AllowedAudioExtensions []string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiVisionModel    string
	GeminiConcurrentReqs int

	// Speech recognition
	SpeechAPIURL   string
	SpeechAPIKey   string
	SpeechLanguage string

	// Rate limiting
	RedisURL           string
	RateLimitPerMinute int

	// CORS
	CORSAllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:      getEnvOrDefault("PORT", "8000"),
		Env:       getEnvOrDefault("ENV", "development"),
		SecretKey: getEnvOrDefault("SECRET_KEY", defaultSecretKey),
		StaticDir: getEnvOrDefault("STATIC_DIR", "./web"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),

		MaxFileSize:            int64(getEnvAsIntOrDefault("MAX_FILE_SIZE", 16*1024*1024)),
		AllowedImageExtensions: ParseExtensions(getEnvOrDefault("ALLOWED_IMAGE_EXTENSIONS", "png,jpg,jpeg,gif,bmp")),
		AllowedAudioExtensions: ParseExtensions(getEnvOrDefault("ALLOWED_AUDIO_EXTENSIONS", "wav,mp3,flac,m4a")),

		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiVisionModel:    getEnvOrDefault("GEMINI_VISION_MODEL", "gemini-2.0-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),

		SpeechAPIURL:   getEnvOrDefault("SPEECH_API_URL", "http://www.google.com/speech-api/v2/recognize"),
		SpeechAPIKey:   getEnvOrDefault("SPEECH_API_KEY", ""),
		SpeechLanguage: getEnvOrDefault("SPEECH_LANGUAGE", "en-US"),

		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),

		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 16 * 1024 * 1024
	}
	if cfg.GeminiConcurrentReqs <= 0 {
		cfg.GeminiConcurrentReqs = 1
	}

	return cfg
}

// UsesDefaultSecret reports whether SECRET_KEY was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == defaultSecretKey
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ParseExtensions turns "png, .JPG,,jpeg" into [png jpg jpeg].
func ParseExtensions(raw string) []string {
	seen := make(map[string]bool)
	var exts []string
	for _, item := range strings.Split(raw, ",") {
		ext := strings.ToLower(strings.TrimSpace(item))
		ext = strings.TrimLeft(ext, ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

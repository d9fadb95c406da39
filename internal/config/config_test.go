package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"plain list", "png,jpg,jpeg", []string{"png", "jpg", "jpeg"}},
		{"normalizes case and dots", " .PNG , Jpg ", []string{"png", "jpg"}},
		{"drops empties and duplicates", "wav,,WAV,mp3,", []string{"wav", "mp3"}},
		{"empty input", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseExtensions(tc.raw)
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Expected %v, got %v", tc.expected, got)
				}
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	for _, key := range []string{"MAX_FILE_SIZE", "ALLOWED_IMAGE_EXTENSIONS", "ALLOWED_AUDIO_EXTENSIONS", "SECRET_KEY", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got %q", cfg.GeminiAPIKey)
	}
	if cfg.MaxFileSize != 16777216 {
		t.Errorf("Expected default max file size 16777216, got %d", cfg.MaxFileSize)
	}
	if len(cfg.AllowedImageExtensions) != 5 {
		t.Errorf("Expected 5 default image extensions, got %v", cfg.AllowedImageExtensions)
	}
	if len(cfg.AllowedAudioExtensions) != 4 {
		t.Errorf("Expected 4 default audio extensions, got %v", cfg.AllowedAudioExtensions)
	}
	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %q", cfg.Port)
	}
	if !cfg.UsesDefaultSecret() {
		t.Error("Expected default secret key to be detected")
	}
}

func TestLoad_PanicsWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when GEMINI_API_KEY is missing")
		}
	}()

	Load()
}

package config

import (
	"errors"
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("QUIZ_SIZE", "3")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("QUIZ_SIZE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}

	if cfg.QuizSize != 3 {
		t.Errorf("Expected QuizSize to be 3, got %d", cfg.QuizSize)
	}

	if cfg.Summarizer != "extractive" {
		t.Errorf("Expected default summarizer 'extractive', got '%s'", cfg.Summarizer)
	}

	if cfg.CacheType != "memory" {
		t.Errorf("Expected default cache type 'memory', got '%s'", cfg.CacheType)
	}

	if len(cfg.RSSFeeds) == 0 {
		t.Error("Expected default RSS feeds")
	}

	if cfg.IsProduction() {
		t.Error("Expected development environment by default")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"gemini without key", map[string]string{"SUMMARIZER": "gemini"}, "GEMINI_API_KEY"},
		{"unknown summarizer", map[string]string{"SUMMARIZER": "magic"}, "SUMMARIZER"},
		{"unknown cache", map[string]string{"CACHE_TYPE": "redis"}, "CACHE_TYPE"},
		{"negative quiz size", map[string]string{"QUIZ_SIZE": "-1"}, "QUIZ_SIZE"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			os.Unsetenv("GEMINI_API_KEY")
			for k, v := range test.env {
				os.Setenv(k, v)
			}
			defer func() {
				for k := range test.env {
					os.Unsetenv(k)
				}
			}()

			_, err := Load()
			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if configErr.Field != test.field {
				t.Errorf("Expected field '%s', got '%s'", test.field, configErr.Field)
			}
		})
	}
}

func TestGeminiWithKey(t *testing.T) {
	os.Setenv("SUMMARIZER", "gemini")
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Unsetenv("SUMMARIZER")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("Expected GeminiAPIKey to be 'test-key', got '%s'", cfg.GeminiAPIKey)
	}
}

func TestParseStringSlice(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{"a, b , c ", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "b"}},
	}

	for _, test := range tests {
		result := parseStringSlice(test.input)
		if len(result) != len(test.expected) {
			t.Errorf("For input '%s', expected length %d, got %d", test.input, len(test.expected), len(result))
			continue
		}
		for i, expected := range test.expected {
			if result[i] != expected {
				t.Errorf("For input '%s', expected[%d] = '%s', got '%s'", test.input, i, expected, result[i])
			}
		}
	}
}

func TestNewsExclusions(t *testing.T) {
	os.Setenv("NEWS_EXCLUDE_KEYWORDS", "sponsored, advertisement")
	os.Setenv("NEWS_EXCLUDE_CATEGORIES", "Opinion")
	defer os.Unsetenv("NEWS_EXCLUDE_KEYWORDS")
	defer os.Unsetenv("NEWS_EXCLUDE_CATEGORIES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(cfg.NewsExcludeKeywords) != 2 || cfg.NewsExcludeKeywords[1] != "advertisement" {
		t.Errorf("Unexpected exclude keywords %v", cfg.NewsExcludeKeywords)
	}
	if len(cfg.NewsExcludeCategories) != 1 || cfg.NewsExcludeCategories[0] != "Opinion" {
		t.Errorf("Unexpected exclude categories %v", cfg.NewsExcludeCategories)
	}
}

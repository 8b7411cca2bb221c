package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port      string `json:"port"`
	Host      string `json:"host"`
	Env       string `json:"env"`
	StaticDir string `json:"static_dir"`

	// Summarizer settings
	Summarizer       string `json:"summarizer"` // "extractive" or "gemini"
	GeminiAPIKey     string `json:"-"`          // Don't expose in JSON
	GeminiModel      string `json:"gemini_model"`
	SummarySentences int    `json:"summary_sentences"`

	// Quiz settings
	QuizSize int `json:"quiz_size"`

	// News settings
	RSSFeeds              []string `json:"rss_feeds"`
	NewsLimit             int      `json:"news_limit"`
	NewsExcludeKeywords   []string `json:"news_exclude_keywords"`
	NewsExcludeCategories []string `json:"news_exclude_categories"`

	// Cache settings
	CacheType          string `json:"cache_type"` // "memory" or "cloud-storage"
	CacheBucket        string `json:"cache_bucket"`
	CacheDuration      int    `json:"cache_duration"` // in hours
	CachePurgeSchedule string `json:"cache_purge_schedule"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Host:                  getEnvOrDefault("HOST", "0.0.0.0"),
		Env:                   getEnvOrDefault("APP_ENV", "development"),
		StaticDir:             getEnvOrDefault("STATIC_DIR", "./static"),
		Summarizer:            getEnvOrDefault("SUMMARIZER", "extractive"),
		GeminiAPIKey:          getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:           getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		SummarySentences:      getEnvOrDefaultInt("SUMMARY_SENTENCES", 5),
		QuizSize:              getEnvOrDefaultInt("QUIZ_SIZE", 5),
		RSSFeeds:              parseStringSlice(getEnvOrDefault("RSS_FEEDS", "https://feeds.bbci.co.uk/news/world/rss.xml,https://rss.nytimes.com/services/xml/rss/nyt/World.xml")),
		NewsLimit:             getEnvOrDefaultInt("NEWS_LIMIT", 30),
		NewsExcludeKeywords:   parseStringSlice(getEnvOrDefault("NEWS_EXCLUDE_KEYWORDS", "")),
		NewsExcludeCategories: parseStringSlice(getEnvOrDefault("NEWS_EXCLUDE_CATEGORIES", "")),
		CacheType:             getEnvOrDefault("CACHE_TYPE", "memory"),
		CacheBucket:           getEnvOrDefault("CACHE_BUCKET", "article-quiz-cache"),
		CacheDuration:         getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		CachePurgeSchedule:    getEnvOrDefault("CACHE_PURGE_SCHEDULE", "@every 10m"),
	}

	return config, config.validate()
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	switch c.Summarizer {
	case "extractive":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required when SUMMARIZER=gemini"}
		}
	default:
		return &ConfigError{Field: "SUMMARIZER", Message: "must be 'extractive' or 'gemini'"}
	}
	if c.CacheType != "memory" && c.CacheType != "cloud-storage" {
		return &ConfigError{Field: "CACHE_TYPE", Message: "must be 'memory' or 'cloud-storage'"}
	}
	if c.QuizSize <= 0 {
		return &ConfigError{Field: "QUIZ_SIZE", Message: "must be positive"}
	}
	if c.SummarySentences <= 0 {
		return &ConfigError{Field: "SUMMARY_SENTENCES", Message: "must be positive"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseStringSlice parses comma-separated string into slice
func parseStringSlice(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

package cache

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cache interface defines cache operations
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Purge(ctx context.Context) (int, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// CacheEntry represents a cached article summary
type CacheEntry struct {
	Key         string     `json:"key"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Authors     []string   `json:"authors"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AccessedAt  time.Time  `json:"accessed_at"`
	AccessCount int        `json:"access_count"`
}

// Stats represents cache statistics
type Stats struct {
	Type           string        `json:"type"`
	TotalEntries   int           `json:"total_entries"`
	HitCount       int64         `json:"hit_count"`
	MissCount      int64         `json:"miss_count"`
	HitRate        float64       `json:"hit_rate"`
	MemoryUsage    int64         `json:"memory_usage_bytes"`
	OldestEntry    time.Time     `json:"oldest_entry"`
	AverageAge     time.Duration `json:"average_age"`
	ExpiredEntries int           `json:"expired_entries"`
}

// Common cache errors
var (
	ErrCacheMiss   = errors.New("cache miss")
	ErrUnsupported = errors.New("unsupported cache type")
)

// Options configures the cache backend
type Options struct {
	Type     string
	Bucket   string
	Duration time.Duration
}

// Manager handles cache operations with convenience methods
type Manager struct {
	cache     Cache
	cacheType string
}

// NewManager creates a new cache manager
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	var cache Cache

	switch opts.Type {
	case "memory", "":
		cache = NewMemoryCache(opts.Duration)
	case "cloud-storage":
		gcs, err := NewCloudStorageCache(ctx, opts.Bucket, opts.Duration)
		if err != nil {
			return nil, err
		}
		cache = gcs
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, opts.Type)
	}

	return NewManagerWith(cache, opts.Type), nil
}

// NewManagerWith wraps an existing cache implementation
func NewManagerWith(cache Cache, cacheType string) *Manager {
	if cacheType == "" {
		cacheType = "memory"
	}
	return &Manager{cache: cache, cacheType: cacheType}
}

// GetSummary retrieves a cached summary for an article URL
func (m *Manager) GetSummary(ctx context.Context, url string) (*CacheEntry, error) {
	return m.cache.Get(ctx, GenerateKey(url))
}

// SetSummary caches a summary for an article URL
func (m *Manager) SetSummary(ctx context.Context, entry *CacheEntry) error {
	return m.cache.Set(ctx, GenerateKey(entry.URL), entry)
}

// Purge removes expired entries and returns how many were removed
func (m *Manager) Purge(ctx context.Context) (int, error) {
	return m.cache.Purge(ctx)
}

// GetStats returns cache statistics
func (m *Manager) GetStats(ctx context.Context) (*Stats, error) {
	stats, err := m.cache.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Type = m.cacheType
	return stats, nil
}

// Clear clears all cached entries
func (m *Manager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// Close releases the underlying cache
func (m *Manager) Close() error {
	return m.cache.Close()
}

// GenerateKey generates a cache key for an article URL
func GenerateKey(url string) string {
	normalized := strings.TrimRight(strings.TrimSpace(url), "/")
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("summary:%x", hash)
}

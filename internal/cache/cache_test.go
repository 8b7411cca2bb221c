package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newEntry(url string) *CacheEntry {
	return &CacheEntry{
		URL:     url,
		Title:   "Test Article",
		Summary: "Test summary.",
		Authors: []string{"Jane Doe"},
	}
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	entry := newEntry("http://example.com/test")

	err := cache.Set(ctx, "test-key", entry)
	if err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	retrieved, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get cache entry: %v", err)
	}

	if retrieved.Title != entry.Title {
		t.Errorf("Expected title '%s', got '%s'", entry.Title, retrieved.Title)
	}

	if retrieved.Summary != entry.Summary {
		t.Errorf("Expected summary '%s', got '%s'", entry.Summary, retrieved.Summary)
	}

	if retrieved.Key != "test-key" {
		t.Errorf("Expected key 'test-key', got '%s'", retrieved.Key)
	}

	if retrieved.AccessCount != 1 {
		t.Errorf("Expected access count 1, got %d", retrieved.AccessCount)
	}

	_, err = cache.Get(ctx, "non-existent")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheSetDoesNotAliasCaller(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	ctx := context.Background()

	entry := newEntry("http://example.com/test")
	cache.Set(ctx, "k", entry)
	entry.Summary = "mutated"

	retrieved, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Failed to get cache entry: %v", err)
	}
	if retrieved.Summary != "Test summary." {
		t.Errorf("Expected stored summary to be unchanged, got '%s'", retrieved.Summary)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCache(50 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "test-key", newEntry("http://example.com/test")); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	if _, err := cache.Get(ctx, "test-key"); err != nil {
		t.Errorf("Expected entry immediately after setting, got %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	_, err := cache.Get(ctx, "test-key")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCachePurge(t *testing.T) {
	cache := NewMemoryCache(50 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cache.Set(ctx, fmt.Sprintf("old-%d", i), newEntry("http://example.com/old"))
	}

	time.Sleep(100 * time.Millisecond)

	cache.duration = time.Hour
	cache.Set(ctx, "fresh", newEntry("http://example.com/fresh"))

	stats, _ := cache.GetStats(ctx)
	if stats.ExpiredEntries != 3 {
		t.Errorf("Expected 3 expired entries before purge, got %d", stats.ExpiredEntries)
	}

	removed, err := cache.Purge(ctx)
	if err != nil {
		t.Fatalf("Failed to purge: %v", err)
	}
	if removed != 3 {
		t.Errorf("Expected 3 removed entries, got %d", removed)
	}

	stats, _ = cache.GetStats(ctx)
	if stats.TotalEntries != 1 {
		t.Errorf("Expected 1 entry after purge, got %d", stats.TotalEntries)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "test-key", newEntry("http://example.com/test")); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	if err := cache.Delete(ctx, "test-key"); err != nil {
		t.Fatalf("Failed to delete cache entry: %v", err)
	}

	if _, err := cache.Get(ctx, "test-key"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after deletion, got %v", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := cache.Set(ctx, fmt.Sprintf("test-key-%d", i), newEntry("http://example.com/test"))
		if err != nil {
			t.Fatalf("Failed to set cache entry %d: %v", i, err)
		}
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := cache.Get(ctx, fmt.Sprintf("test-key-%d", i)); err != ErrCacheMiss {
			t.Errorf("Expected key %d to be gone after clear, got %v", i, err)
		}
	}
}

func TestMemoryCacheStats(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "test-key", newEntry("http://example.com/test")); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	stats, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats.TotalEntries != 1 {
		t.Errorf("Expected 1 total entry, got %d", stats.TotalEntries)
	}

	if stats.MemoryUsage <= 0 {
		t.Errorf("Expected positive memory usage, got %d", stats.MemoryUsage)
	}

	// Trigger a hit
	if _, err := cache.Get(ctx, "test-key"); err != nil {
		t.Fatalf("Failed to get cache entry: %v", err)
	}

	// Trigger a miss
	if _, err := cache.Get(ctx, "non-existent"); err != ErrCacheMiss {
		t.Errorf("Expected cache miss, got %v", err)
	}

	stats, err = cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get updated stats: %v", err)
	}

	if stats.HitCount != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.HitCount)
	}

	if stats.MissCount != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.MissCount)
	}

	if stats.HitRate != 0.5 {
		t.Errorf("Expected hit rate 0.5, got %f", stats.HitRate)
	}
}

func TestCacheManager(t *testing.T) {
	manager, err := NewManager(context.Background(), Options{Type: "memory", Duration: time.Hour})
	if err != nil {
		t.Fatalf("Failed to create cache manager: %v", err)
	}
	defer manager.Close()
	ctx := context.Background()

	url := "https://example.com/article"

	if _, err := manager.GetSummary(ctx, url); err != ErrCacheMiss {
		t.Errorf("Expected URL to not be cached initially, got %v", err)
	}

	if err := manager.SetSummary(ctx, newEntry(url)); err != nil {
		t.Fatalf("Failed to set summary: %v", err)
	}

	// Trailing slash normalizes to the same key
	entry, err := manager.GetSummary(ctx, url+"/")
	if err != nil {
		t.Fatalf("Failed to get summary: %v", err)
	}
	if entry.Summary != "Test summary." {
		t.Errorf("Expected summary 'Test summary.', got '%s'", entry.Summary)
	}

	stats, err := manager.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Type != "memory" {
		t.Errorf("Expected stats type 'memory', got '%s'", stats.Type)
	}

	if err := manager.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	if _, err := manager.GetSummary(ctx, url); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after clear, got %v", err)
	}
}

func TestNewManagerUnsupportedType(t *testing.T) {
	_, err := NewManager(context.Background(), Options{Type: "redis"})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestGenerateKey(t *testing.T) {
	key1 := GenerateKey("https://example.com/a")
	key2 := GenerateKey("https://example.com/a/")
	key3 := GenerateKey("https://example.com/b")

	if key1 != key2 {
		t.Errorf("Expected trailing slash to be ignored: %s != %s", key1, key2)
	}
	if key1 == key3 {
		t.Error("Expected different URLs to produce different keys")
	}
	if !strings.HasPrefix(key1, "summary:") {
		t.Errorf("Expected key prefix 'summary:', got '%s'", key1)
	}
	// md5 hex digest
	if len(key1) != len("summary:")+32 {
		t.Errorf("Unexpected key length %d", len(key1))
	}
}

func TestObjectName(t *testing.T) {
	if got := objectName("summaries/", "summary:abc"); got != "summaries/summary:abc.json" {
		t.Errorf("Unexpected object name '%s'", got)
	}
}

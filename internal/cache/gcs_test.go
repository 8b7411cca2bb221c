package cache

import (
	"testing"
	"time"

	"cloud.google.com/go/storage"
)

func TestExpiredMetadata(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		metadata map[string]string
		expected bool
	}{
		{"no metadata", nil, false},
		{"future expiry", map[string]string{"expires_at": "2024-01-01T13:00:00Z"}, false},
		{"past expiry", map[string]string{"expires_at": "2024-01-01T11:00:00Z"}, true},
		{"unparseable expiry", map[string]string{"expires_at": "tomorrow"}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			attrs := &storage.ObjectAttrs{Metadata: test.metadata}
			if got := expired(attrs, now); got != test.expected {
				t.Errorf("Expected expired=%v, got %v", test.expected, got)
			}
		})
	}
}

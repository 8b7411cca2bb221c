package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pep299/article-quiz/internal/article"
	"github.com/pep299/article-quiz/internal/summarizer"
)

func newStubClient(reply string, err error) (*Client, *string) {
	var lastPrompt string
	return &Client{
		model: "test-model",
		generate: func(ctx context.Context, prompt string) (string, error) {
			lastPrompt = prompt
			return reply, err
		},
	}, &lastPrompt
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "gemini-2.0-flash"); err == nil {
		t.Error("Expected error for empty API key")
	}
}

func TestBuildPrompt(t *testing.T) {
	client, _ := newStubClient("", nil)

	prompt := client.buildPrompt(SummarizeRequest{
		Title:   "Test Title",
		Link:    "https://example.com",
		Content: "This is test content.",
	})

	for _, expected := range []string{"Test Title", "https://example.com", "This is test content.", "\"summary\""} {
		if !strings.Contains(prompt, expected) {
			t.Errorf("Expected prompt to contain '%s'", expected)
		}
	}

	longContent := strings.Repeat("a", 15000)
	truncated := client.buildPrompt(SummarizeRequest{Content: longContent})
	if len(truncated) > 11000 {
		t.Error("Expected long content to be truncated")
	}
}

func TestParseResponse(t *testing.T) {
	client, _ := newStubClient("", nil)

	tests := []struct {
		name      string
		input     string
		summary   string
		keyPoints int
	}{
		{
			name:      "plain JSON",
			input:     `{"summary": "The Danube is long.", "key_points": ["a", "b"]}`,
			summary:   "The Danube is long.",
			keyPoints: 2,
		},
		{
			name:      "JSON inside code fence",
			input:     "```json\n{\"summary\": \"Fenced.\"}\n```",
			summary:   "Fenced.",
			keyPoints: 0,
		},
		{
			name:      "no JSON",
			input:     "Just a sentence.",
			summary:   "Just a sentence.",
			keyPoints: 0,
		},
		{
			name:      "broken JSON",
			input:     "{not json}",
			summary:   "{not json}",
			keyPoints: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := client.parseResponse(test.input)
			if resp.Summary != test.summary {
				t.Errorf("Expected summary '%s', got '%s'", test.summary, resp.Summary)
			}
			if len(resp.KeyPoints) != test.keyPoints {
				t.Errorf("Expected %d key points, got %d", test.keyPoints, len(resp.KeyPoints))
			}
			if resp.ProcessedAt.IsZero() {
				t.Error("Expected ProcessedAt to be set")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	client, prompt := newStubClient(`{"summary": "Rivers matter."}`, nil)

	summary, err := client.Summarize(context.Background(), &article.Article{
		URL:   "https://example.com/rivers",
		Title: "Rivers",
		Text:  "Long article text.",
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != "Rivers matter." {
		t.Errorf("Unexpected summary '%s'", summary)
	}
	if !strings.Contains(*prompt, "Long article text.") {
		t.Error("Expected article text in prompt")
	}
}

func TestSummarizeErrors(t *testing.T) {
	client, _ := newStubClient("", errors.New("quota exceeded"))
	if _, err := client.Summarize(context.Background(), &article.Article{Text: "Some text."}); err == nil {
		t.Error("Expected error from generate")
	}

	client, _ = newStubClient("   ", nil)
	if _, err := client.SummarizeArticle(context.Background(), SummarizeRequest{}); err == nil {
		t.Error("Expected error for empty response")
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	client, prompt := newStubClient(`{"summary": "unused"}`, nil)

	for _, text := range []string{"", "   \n\t"} {
		_, err := client.Summarize(context.Background(), &article.Article{Title: "Empty", Text: text})
		if !errors.Is(err, summarizer.ErrEmptyText) {
			t.Errorf("Expected ErrEmptyText for %q, got %v", text, err)
		}
	}
	if *prompt != "" {
		t.Error("Expected no request for empty text")
	}
}

func TestSummarizeArticleTimeout(t *testing.T) {
	client, _ := newStubClient("", nil)
	client.timeout = defaultTimeout

	var deadline time.Time
	var ok bool
	client.generate = func(ctx context.Context, prompt string) (string, error) {
		deadline, ok = ctx.Deadline()
		return `{"summary": "Done."}`, nil
	}

	if _, err := client.SummarizeArticle(context.Background(), SummarizeRequest{Content: "text"}); err != nil {
		t.Fatalf("SummarizeArticle failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected request context to carry a deadline")
	}
	if remaining := time.Until(deadline); remaining > defaultTimeout || remaining < defaultTimeout-5*time.Second {
		t.Errorf("Expected deadline about %v away, got %v", defaultTimeout, remaining)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"short", "abc", 10, "abc"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"cut inside rune", "aé", 2, "a"},
		{"cut inside cjk", "日本語", 4, "日"},
		{"cut on boundary", "日本語", 6, "日本"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := truncate(test.input, test.n)
			if result != test.expected {
				t.Errorf("Expected '%s', got '%s'", test.expected, result)
			}
		})
	}

	client, _ := newStubClient("", nil)
	long := strings.Repeat("日", maxContentLength)
	if built := client.buildPrompt(SummarizeRequest{Content: long}); !utf8.ValidString(built) {
		t.Error("Expected truncated prompt to be valid UTF-8")
	}
}

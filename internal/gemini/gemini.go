package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/pep299/article-quiz/internal/article"
	"github.com/pep299/article-quiz/internal/summarizer"
)

const (
	// maxContentLength caps the article text sent to the model, in bytes
	maxContentLength = 10000

	defaultTimeout = 60 * time.Second
)

// Client handles Gemini API operations
type Client struct {
	model    string
	timeout  time.Duration
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewClient creates a new Gemini API client
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &Client{
		model:   model,
		timeout: defaultTimeout,
		generate: func(ctx context.Context, prompt string) (string, error) {
			result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
			if err != nil {
				return "", err
			}
			return result.Text(), nil
		},
	}, nil
}

// SummarizeRequest represents a summarization request
type SummarizeRequest struct {
	Title   string
	Link    string
	Content string
}

// SummarizeResponse represents a summarization response
type SummarizeResponse struct {
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"key_points"`
	ProcessedAt time.Time `json:"processed_at"`
}

// SummarizeArticle summarizes an article using Gemini API
func (c *Client) SummarizeArticle(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.generate(ctx, c.buildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no content in response")
	}

	return c.parseResponse(text), nil
}

// Summarize implements summarizer.Summarizer
func (c *Client) Summarize(ctx context.Context, a *article.Article) (string, error) {
	if strings.TrimSpace(a.Text) == "" {
		return "", summarizer.ErrEmptyText
	}

	resp, err := c.SummarizeArticle(ctx, SummarizeRequest{
		Title:   a.Title,
		Link:    a.URL,
		Content: a.Text,
	})
	if err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// buildPrompt creates a prompt for the Gemini API
func (c *Client) buildPrompt(req SummarizeRequest) string {
	var content strings.Builder

	content.WriteString("Summarize the article below. Answer in JSON with this shape:\n\n")
	content.WriteString("{\n")
	content.WriteString("  \"summary\": \"3-5 plain factual sentences, each ending with a period\",\n")
	content.WriteString("  \"key_points\": [\"point 1\", \"point 2\", \"point 3\"]\n")
	content.WriteString("}\n\n")

	content.WriteString("Article:\n")
	content.WriteString(fmt.Sprintf("Title: %s\n", req.Title))
	content.WriteString(fmt.Sprintf("URL: %s\n", req.Link))

	if req.Content != "" {
		content.WriteString(fmt.Sprintf("Content: %s\n", truncate(req.Content, maxContentLength)))
	}

	return content.String()
}

// parseResponse parses the Gemini API response
func (c *Client) parseResponse(responseText string) *SummarizeResponse {
	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}") + 1

	fallback := &SummarizeResponse{
		Summary:     strings.TrimSpace(responseText),
		KeyPoints:   []string{},
		ProcessedAt: time.Now(),
	}

	if start == -1 || end <= start {
		return fallback
	}

	var response struct {
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
	}
	if err := json.Unmarshal([]byte(responseText[start:end]), &response); err != nil || response.Summary == "" {
		return fallback
	}

	if response.KeyPoints == nil {
		response.KeyPoints = []string{}
	}

	return &SummarizeResponse{
		Summary:     response.Summary,
		KeyPoints:   response.KeyPoints,
		ProcessedAt: time.Now(),
	}
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

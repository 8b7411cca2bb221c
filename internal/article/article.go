package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrInvalidURL is returned for URLs that cannot be fetched
var ErrInvalidURL = errors.New("invalid url")

// Article is the parsed content of a web page
type Article struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Authors     []string   `json:"authors"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	Text        string     `json:"text"`
}

// Client downloads and parses articles
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewClient creates a new article client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "article-quiz/1.0",
		maxBytes:  5 << 20,
	}
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// Fetch downloads the page at rawURL and extracts the article
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return Parse(io.LimitReader(resp.Body, c.maxBytes), u.String())
}

var (
	spaceRe     = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLineRe = regexp.MustCompile(`\n{2,}`)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Parse extracts title, authors, publish date and body text from HTML
func Parse(r io.Reader, pageURL string) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	a := &Article{
		URL:     pageURL,
		Title:   extractTitle(doc),
		Authors: extractAuthors(doc),
	}
	if d, ok := extractPublishDate(doc); ok {
		a.PublishDate = &d
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe").Remove()
	a.Text = extractText(doc)

	return a, nil
}

func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractAuthors(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	authors := []string{}

	add := func(name string) {
		name = strings.TrimSpace(spaceRe.ReplaceAllString(name, " "))
		name = strings.TrimSpace(strings.TrimPrefix(name, "By "))
		if name == "" || seen[strings.ToLower(name)] || strings.HasPrefix(name, "http") {
			return
		}
		seen[strings.ToLower(name)] = true
		authors = append(authors, name)
	}

	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			for _, name := range strings.Split(content, ",") {
				add(name)
			}
		}
	})
	doc.Find(`[itemprop="author"], a[rel="author"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			add(content)
			return
		}
		add(s.Text())
	})

	return authors
}

func extractPublishDate(doc *goquery.Document) (time.Time, bool) {
	var candidates []string
	doc.Find(`meta[property="article:published_time"], meta[name="pubdate"], meta[name="publishdate"], meta[name="date"], meta[itemprop="datePublished"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			candidates = append(candidates, content)
		}
	})
	doc.Find("time[datetime]").Each(func(_ int, s *goquery.Selection) {
		if dt, ok := s.Attr("datetime"); ok {
			candidates = append(candidates, dt)
		}
	})

	for _, c := range candidates {
		if t, ok := parseDate(strings.TrimSpace(c)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extractText prefers paragraphs inside <article>, then any paragraph, then
// the whole body.
func extractText(doc *goquery.Document) string {
	root := doc.Find("article").First()
	if root.Length() == 0 || root.Find("p").Length() == 0 {
		root = doc.Find("body")
	}

	var paragraphs []string
	root.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := normalize(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n")
	}

	text := spaceRe.ReplaceAllString(root.Text(), " ")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(blankLineRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func normalize(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Feed represents an RSS feed
type Feed struct {
	Title       string `xml:"channel>title"`
	Description string `xml:"channel>description"`
	Link        string `xml:"channel>link"`
	Items       []Item `xml:"channel>item"`
}

// Item represents an RSS item
type Item struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	GUID        string    `xml:"guid"`
	Category    []string  `xml:"category"`
	ParsedDate  time.Time `xml:"-"`
	Source      string    `xml:"-"`
}

// Headline is the JSON shape served to the news list
type Headline struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Source      Source     `json:"source"`
}

// Source names the feed a headline came from
type Source struct {
	Name string `json:"name"`
}

// Client handles RSS feed operations
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new RSS client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "article-quiz/1.0",
	}
}

// FetchFeed fetches and parses an RSS feed from the given URL
func (c *Client) FetchFeed(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var feed Feed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing RSS feed: %w", err)
	}

	source := feed.Title
	if source == "" {
		source = url
	}
	for i := range feed.Items {
		feed.Items[i].Source = source
		if feed.Items[i].PubDate != "" {
			if parsedDate, err := parseRSSDate(feed.Items[i].PubDate); err == nil {
				feed.Items[i].ParsedDate = parsedDate
			}
		}
	}

	return &feed, nil
}

// FetchMultipleFeeds fetches multiple RSS feeds concurrently
func (c *Client) FetchMultipleFeeds(ctx context.Context, urls []string) (map[string]*Feed, map[string]error) {
	type result struct {
		url  string
		feed *Feed
		err  error
	}

	results := make(chan result, len(urls))

	for _, url := range urls {
		go func(u string) {
			feed, err := c.FetchFeed(ctx, u)
			results <- result{url: u, feed: feed, err: err}
		}(url)
	}

	feeds := make(map[string]*Feed)
	errors := make(map[string]error)

	for i := 0; i < len(urls); i++ {
		res := <-results
		if res.err != nil {
			errors[res.url] = res.err
		} else {
			feeds[res.url] = res.feed
		}
	}

	return feeds, errors
}

// Headlines fetches all feeds and returns matching items, newest first
func (c *Client) Headlines(ctx context.Context, urls []string, options FilterOptions, limit int) ([]Headline, map[string]error) {
	fetched, errs := c.FetchMultipleFeeds(ctx, urls)

	var all []Item
	for _, url := range urls {
		if feed, ok := fetched[url]; ok {
			all = append(all, feed.Items...)
		}
	}

	items := FilterItems(GetUniqueItems(all), options)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ParsedDate.After(items[j].ParsedDate)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	headlines := make([]Headline, 0, len(items))
	for _, item := range items {
		headlines = append(headlines, item.Headline())
	}
	return headlines, errs
}

// Headline converts an item to its JSON shape
func (item Item) Headline() Headline {
	h := Headline{
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
		URL:         strings.TrimSpace(item.Link),
		Source:      Source{Name: item.Source},
	}
	if !item.ParsedDate.IsZero() {
		d := item.ParsedDate
		h.PublishedAt = &d
	}
	return h
}

// FilterOptions holds filtering criteria
type FilterOptions struct {
	Query             string
	ExcludeCategories []string
	MinTitleLength    int
	MaxAge            time.Duration
	ExcludeKeywords   []string
}

// FilterItems filters RSS items based on criteria
func FilterItems(items []Item, options FilterOptions) []Item {
	var filtered []Item

	for _, item := range items {
		if shouldIncludeItem(item, options) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

// shouldIncludeItem checks if an item should be included based on filter options
func shouldIncludeItem(item Item, options FilterOptions) bool {
	if options.MinTitleLength > 0 && len(item.Title) < options.MinTitleLength {
		return false
	}

	if options.MaxAge > 0 && !item.ParsedDate.IsZero() {
		if time.Since(item.ParsedDate) > options.MaxAge {
			return false
		}
	}

	for _, category := range item.Category {
		for _, excluded := range options.ExcludeCategories {
			if strings.EqualFold(category, excluded) {
				return false
			}
		}
	}

	titleLower := strings.ToLower(item.Title)
	descLower := strings.ToLower(item.Description)

	if q := strings.ToLower(strings.TrimSpace(options.Query)); q != "" {
		if !strings.Contains(titleLower, q) && !strings.Contains(descLower, q) {
			return false
		}
	}

	for _, keyword := range options.ExcludeKeywords {
		keywordLower := strings.ToLower(keyword)
		if strings.Contains(titleLower, keywordLower) || strings.Contains(descLower, keywordLower) {
			return false
		}
	}

	return true
}

// parseRSSDate parses various RSS date formats
func parseRSSDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// GetUniqueItems removes duplicate items based on GUID or link
func GetUniqueItems(items []Item) []Item {
	seen := make(map[string]bool)
	var unique []Item

	for _, item := range items {
		key := item.GUID
		if key == "" {
			key = item.Link
		}

		if key != "" && !seen[key] {
			seen[key] = true
			unique = append(unique, item)
		}
	}

	return unique
}

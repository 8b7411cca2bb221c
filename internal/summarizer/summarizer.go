package summarizer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pep299/article-quiz/internal/article"
)

// DefaultSentences is the number of sentences kept in an extractive summary
const DefaultSentences = 5

// ErrEmptyText is returned when an article has no body text to summarize
var ErrEmptyText = errors.New("article has no text")

// Summarizer produces a summary for an article
type Summarizer interface {
	Summarize(ctx context.Context, a *article.Article) (string, error)
}

// Tokenizer splits text into sentences and lowercased words
type Tokenizer interface {
	SplitSentences(text string) ([]string, error)
	Words(text string) ([]string, error)
}

// Extractive picks the highest scoring sentences of the article body
type Extractive struct {
	tokenizer    Tokenizer
	maxSentences int
}

// NewExtractive creates a new extractive summarizer
func NewExtractive(tokenizer Tokenizer, maxSentences int) *Extractive {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	return &Extractive{
		tokenizer:    tokenizer,
		maxSentences: maxSentences,
	}
}

type scoredSentence struct {
	index int
	text  string
	score float64
}

// Summarize returns the top sentences joined by newlines, in article order
func (e *Extractive) Summarize(ctx context.Context, a *article.Article) (string, error) {
	if strings.TrimSpace(a.Text) == "" {
		return "", ErrEmptyText
	}

	sentences, err := e.tokenizer.SplitSentences(a.Text)
	if err != nil {
		return "", fmt.Errorf("splitting sentences: %w", err)
	}
	if len(sentences) <= e.maxSentences {
		return strings.Join(sentences, "\n"), nil
	}

	words, err := e.tokenizer.Words(a.Text)
	if err != nil {
		return "", fmt.Errorf("tokenizing text: %w", err)
	}
	keywords := topKeywords(words, 10)

	titleWords, err := e.tokenizer.Words(a.Title)
	if err != nil {
		return "", fmt.Errorf("tokenizing title: %w", err)
	}
	title := contentWords(titleWords)

	scored := make([]scoredSentence, 0, len(sentences))
	for i, s := range sentences {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		sw, err := e.tokenizer.Words(s)
		if err != nil {
			return "", fmt.Errorf("tokenizing sentence: %w", err)
		}
		score := (titleScore(sw, title)*1.5 +
			keywordScore(sw, keywords)*2.0 +
			lengthScore(len(sw))*1.0 +
			positionScore(i, len(sentences))*1.0) / 4.0
		scored = append(scored, scoredSentence{index: i, text: s, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	top := scored[:e.maxSentences]
	sort.Slice(top, func(i, j int) bool {
		return top[i].index < top[j].index
	})

	lines := make([]string, len(top))
	for i, s := range top {
		lines[i] = s.text
	}
	return strings.Join(lines, "\n"), nil
}

// topKeywords maps the n most frequent content words to a weight
func topKeywords(words []string, n int) map[string]float64 {
	content := contentWords(words)
	if len(content) == 0 {
		return map[string]float64{}
	}

	freq := make(map[string]int)
	for _, w := range content {
		freq[w]++
	}

	type kv struct {
		word  string
		count int
	}
	ranked := make([]kv, 0, len(freq))
	for w, c := range freq {
		ranked = append(ranked, kv{w, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	keywords := make(map[string]float64, len(ranked))
	for _, r := range ranked {
		keywords[r.word] = float64(r.count)*1.5/float64(len(content)) + 1
	}
	return keywords
}

func contentWords(words []string) []string {
	var out []string
	for _, w := range words {
		if len(w) > 1 && !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

func titleScore(words, title []string) float64 {
	if len(title) == 0 {
		return 0
	}
	inTitle := make(map[string]bool, len(title))
	for _, w := range title {
		inTitle[w] = true
	}
	matched := 0
	for _, w := range contentWords(words) {
		if inTitle[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(title))
}

func keywordScore(words []string, keywords map[string]float64) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0.0
	for _, w := range words {
		total += keywords[w]
	}
	return total / float64(len(words))
}

// lengthScore peaks at an ideal sentence length of 20 words
func lengthScore(n int) float64 {
	const ideal = 20.0
	score := 1 - abs(ideal-float64(n))/ideal
	if score < 0 {
		return 0
	}
	return score
}

// positionScore favors sentences near the start and the end of the text
func positionScore(i, total int) float64 {
	normalized := float64(i+1) / float64(total)
	switch {
	case normalized <= 0.1:
		return 0.17
	case normalized <= 0.2:
		return 0.23
	case normalized <= 0.3:
		return 0.14
	case normalized <= 0.4:
		return 0.08
	case normalized <= 0.5:
		return 0.05
	case normalized <= 0.6:
		return 0.04
	case normalized <= 0.7:
		return 0.06
	case normalized <= 0.8:
		return 0.04
	case normalized <= 0.9:
		return 0.04
	default:
		return 0.15
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

package quiz

import (
	"fmt"
	"strings"
)

// DefaultQuota is the number of questions generated per quiz
const DefaultQuota = 5

const (
	genericPrompt      = "Which of the following statements is true according to the article?"
	genericExplanation = "This statement is directly quoted from the article."
)

var templates = []string{
	"What is mentioned in the article about %s?",
	"According to the article, what happened regarding %s?",
	"The article discusses %s in relation to what?",
	"Which of the following is true about %s?",
	"What does the article state about %s?",
}

var genericWrong = []string{
	"This was not mentioned in the article",
	"The article states the opposite",
	"None of the above",
	"This is incorrect according to the article",
}

var fallbackDistractors = []string{
	"This was not mentioned in the article",
	"The article states something different",
	"None of the above",
}

// Generator builds multiple-choice questions from summary sentences
type Generator struct {
	tagger Tagger
	source Source
	quota  int
}

// Option configures a Generator
type Option func(*Generator)

// WithSource sets the random source
func WithSource(source Source) Option {
	return func(g *Generator) {
		g.source = source
	}
}

// WithQuota sets the maximum number of questions per quiz
func WithQuota(quota int) Option {
	return func(g *Generator) {
		if quota > 0 {
			g.quota = quota
		}
	}
}

// NewGenerator creates a new quiz generator
func NewGenerator(tagger Tagger, opts ...Option) *Generator {
	g := &Generator{
		tagger: tagger,
		source: DefaultSource(),
		quota:  DefaultQuota,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds up to the quota of questions from sentences and entities
func (g *Generator) Generate(sentences []string, entities []Entity) ([]Question, error) {
	return g.GenerateWithFallback(sentences, entities, "")
}

// GenerateWithFallback is Generate, but uses fallback as the correct answer of
// the synthetic question emitted when no sentence is available.
func (g *Generator) GenerateWithFallback(sentences []string, entities []Entity, fallback string) ([]Question, error) {
	questions := make([]Question, 0, g.quota)
	used := make(map[string]bool, len(sentences))

	// Entity-driven pass in sentence order
	for _, sentence := range sentences {
		if len(questions) >= g.quota {
			break
		}
		if used[sentence] {
			continue
		}
		q, err := g.buildQuestion(sentence, entities, sentences)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
		used[sentence] = true
	}

	// Backfill from whatever is left
	var remaining []string
	for _, sentence := range sentences {
		if !used[sentence] {
			remaining = append(remaining, sentence)
		}
	}
	for len(questions) < g.quota && len(remaining) > 0 {
		i := g.source.Choice(len(remaining))
		sentence := remaining[i]
		remaining = append(remaining[:i], remaining[i+1:]...)
		if used[sentence] {
			continue
		}
		q, err := g.buildQuestion(sentence, entities, sentences)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
		used[sentence] = true
	}

	if len(questions) == 0 {
		questions = append(questions, fallbackQuestion(fallback))
	}

	return questions, nil
}

// buildQuestion always produces a question; the tiers only decide its subject.
func (g *Generator) buildQuestion(sentence string, entities []Entity, all []string) (Question, error) {
	lower := strings.ToLower(sentence)
	for _, entity := range entities {
		if entity.Text == "" || !strings.Contains(lower, strings.ToLower(entity.Text)) {
			continue
		}
		return Question{
			Prompt:        g.prompt(entity.Text),
			Options:       g.options(sentence, all),
			CorrectAnswer: sentence,
			Explanation:   fmt.Sprintf("This is directly stated in the article regarding %s.", entity.Text),
		}, nil
	}

	noun, err := g.firstNoun(sentence)
	if err != nil {
		return Question{}, err
	}
	if noun != "" {
		return Question{
			Prompt:        g.prompt(noun),
			Options:       g.options(sentence, all),
			CorrectAnswer: sentence,
			Explanation:   fmt.Sprintf("This information about %s is directly stated in the article.", noun),
		}, nil
	}

	return Question{
		Prompt:        genericPrompt,
		Options:       g.options(sentence, all),
		CorrectAnswer: sentence,
		Explanation:   genericExplanation,
	}, nil
}

func (g *Generator) firstNoun(sentence string) (string, error) {
	if g.tagger == nil {
		return "", nil
	}
	tokens, err := g.tagger.Tag(sentence)
	if err != nil {
		return "", &AnalysisError{Op: "tagging", Err: err}
	}
	for _, token := range tokens {
		if strings.HasPrefix(token.Tag, "NN") {
			return token.Text, nil
		}
	}
	return "", nil
}

func (g *Generator) prompt(subject string) string {
	return fmt.Sprintf(templates[g.source.Choice(len(templates))], subject)
}

// options returns the correct sentence followed by three distractors
func (g *Generator) options(correct string, all []string) []string {
	var pool []string
	for _, s := range all {
		if s != correct {
			pool = append(pool, s)
		}
	}

	wrong := make([]string, 0, 3)
	for _, i := range g.source.Sample(len(pool), min(2, len(pool))) {
		wrong = append(wrong, pool[i])
	}
	// Generic answers are drawn with replacement and may repeat
	for len(wrong) < 3 {
		wrong = append(wrong, genericWrong[g.source.Choice(len(genericWrong))])
	}
	wrong = wrong[:3]

	return append([]string{correct}, wrong...)
}

func fallbackQuestion(text string) Question {
	options := append([]string{text}, fallbackDistractors...)
	return Question{
		Prompt:        genericPrompt,
		Options:       options,
		CorrectAnswer: text,
		Explanation:   genericExplanation,
	}
}

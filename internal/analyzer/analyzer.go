package analyzer

import (
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/pep299/article-quiz/internal/quiz"
)

// Analysis is the output of a single analysis pass over a text
type Analysis struct {
	Sentences []string      `json:"sentences"`
	Entities  []quiz.Entity `json:"entities"`
}

// TextAnalyzer splits text into sentences, tags tokens and extracts entities
type TextAnalyzer interface {
	quiz.Tagger
	Analyze(text string) (*Analysis, error)
	SplitSentences(text string) ([]string, error)
	ExtractEntities(text string) ([]quiz.Entity, error)
}

// Prose implements TextAnalyzer on top of the prose NLP pipeline
type Prose struct{}

// NewProse creates a new prose-backed analyzer
func NewProse() *Prose {
	return &Prose{}
}

// Analyze returns the sentences and named entities of text
func (p *Prose) Analyze(text string) (*Analysis, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, &quiz.AnalysisError{Op: "analyze", Err: err}
	}

	return &Analysis{
		Sentences: sentencesOf(doc),
		Entities:  entitiesOf(doc),
	}, nil
}

// SplitSentences returns the sentences of text in order
func (p *Prose) SplitSentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, &quiz.AnalysisError{Op: "sentence split", Err: err}
	}
	return sentencesOf(doc), nil
}

// ExtractEntities returns entity mentions in order of first occurrence
func (p *Prose) ExtractEntities(text string) ([]quiz.Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, &quiz.AnalysisError{Op: "entity extraction", Err: err}
	}
	return entitiesOf(doc), nil
}

// Tag returns Penn Treebank tagged tokens for a single sentence
func (p *Prose) Tag(sentence string) ([]quiz.Token, error) {
	doc, err := prose.NewDocument(sentence, prose.WithSegmentation(false), prose.WithExtraction(false))
	if err != nil {
		return nil, &quiz.AnalysisError{Op: "tagging", Err: err}
	}

	tokens := make([]quiz.Token, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		tokens = append(tokens, quiz.Token{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens, nil
}

// Words returns the lowercased word tokens of text, skipping punctuation
func (p *Prose) Words(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, &quiz.AnalysisError{Op: "tokenize", Err: err}
	}

	var words []string
	for _, tok := range doc.Tokens() {
		if isWord(tok.Text) {
			words = append(words, strings.ToLower(tok.Text))
		}
	}
	return words, nil
}

func sentencesOf(doc *prose.Document) []string {
	var sentences []string
	for _, s := range doc.Sentences() {
		if text := strings.TrimSpace(s.Text); text != "" {
			sentences = append(sentences, text)
		}
	}
	return sentences
}

func entitiesOf(doc *prose.Document) []quiz.Entity {
	var entities []quiz.Entity
	for _, e := range doc.Entities() {
		if text := strings.TrimSpace(e.Text); text != "" {
			entities = append(entities, quiz.Entity{Text: text, Label: e.Label})
		}
	}
	return entities
}

func isWord(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

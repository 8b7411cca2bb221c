package quiz

import (
	"errors"
	"fmt"
)

// Entity is a named-entity mention produced by the text analyzer
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Token is a single part-of-speech tagged word
type Token struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// Question represents one multiple-choice question
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Tagger tags the tokens of a single sentence
type Tagger interface {
	Tag(sentence string) ([]Token, error)
}

// ErrInvalidInput is returned when there is nothing to build a quiz from
var ErrInvalidInput = errors.New("invalid input")

// AnalysisError wraps a failure inside tokenization or tagging
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed during %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/analyzer"
	"github.com/pep299/article-quiz/internal/quiz"
)

// Analyzer is the part of the text analyzer the quiz service needs
type Analyzer interface {
	quiz.Tagger
	Analyze(text string) (*analyzer.Analysis, error)
}

// QuizResult is a generated quiz
type QuizResult struct {
	QuizID    string          `json:"quiz_id"`
	Questions []quiz.Question `json:"questions"`
}

// QuizService turns summaries into quizzes
type QuizService struct {
	analyzer  Analyzer
	generator *quiz.Generator
	logger    *zap.Logger
	newID     func() string
}

// NewQuizService creates a quiz service that tags sentences with the same analyzer it splits them with
func NewQuizService(a Analyzer, logger *zap.Logger, opts ...quiz.Option) *QuizService {
	return &QuizService{
		analyzer:  a,
		generator: quiz.NewGenerator(a, opts...),
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// GenerateQuiz analyzes summary and builds its questions
func (s *QuizService) GenerateQuiz(ctx context.Context, summary string) (*QuizResult, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, fmt.Errorf("%w: no summary provided", quiz.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(summary)
	if err != nil {
		return nil, fmt.Errorf("analyzing summary: %w", err)
	}
	if len(analysis.Sentences) == 0 {
		return nil, fmt.Errorf("%w: no sentences found in summary", quiz.ErrInvalidInput)
	}

	questions, err := s.generator.GenerateWithFallback(analysis.Sentences, analysis.Entities, summary)
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}

	result := &QuizResult{
		QuizID:    s.newID(),
		Questions: questions,
	}
	s.logger.Info("quiz generated",
		zap.String("quiz_id", result.QuizID),
		zap.Int("sentences", len(analysis.Sentences)),
		zap.Int("entities", len(analysis.Entities)),
		zap.Int("questions", len(questions)),
	)
	return result, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/repository"
	"github.com/tieubaoca/feasibility-be/types"
	"github.com/tieubaoca/feasibility-be/utils"
)

// GenerationResult is the raw completion and the questions parsed from it.
type GenerationResult struct {
	Raw       string
	Questions *types.QuestionSet
}

// QuestionService asks the model for the preliminary feasibility questions of
// a project description.
type QuestionService struct {
	ai      AIService
	prompt  *PromptBuilder
	history repository.HistoryRepo
	log     *zap.Logger
}

func NewQuestionService(ai AIService, prompt *PromptBuilder, history repository.HistoryRepo, log *zap.Logger) *QuestionService {
	if prompt == nil {
		prompt = NewPromptBuilder()
	}
	if log == nil {
		log = zap.L()
	}
	return &QuestionService{
		ai:      ai,
		prompt:  prompt,
		history: history,
		log:     log,
	}
}

func (s *QuestionService) Generate(ctx context.Context, query string) (*GenerationResult, error) {
	return s.generate(ctx, query, func(prompt string) (string, error) {
		return s.ai.Complete(ctx, prompt)
	})
}

// GenerateStream behaves like Generate and passes every completion delta to
// handler as it arrives.
func (s *QuestionService) GenerateStream(ctx context.Context, query string, handler types.StreamHandler) (*GenerationResult, error) {
	return s.generate(ctx, query, func(prompt string) (string, error) {
		return s.ai.CompleteStream(ctx, prompt, handler)
	})
}

func (s *QuestionService) generate(ctx context.Context, query string, complete func(prompt string) (string, error)) (*GenerationResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	prompt, err := s.prompt.Build(PromptData{Project: query})
	if err != nil {
		return nil, err
	}

	raw, err := complete(prompt)
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}
	questions := utils.ParseQuestions(raw)
	s.log.Debug("generated questions", zap.Int("count", questions.Len()), zap.Int("raw_len", len(raw)))
	if questions.Len() == 0 {
		s.log.Warn("model reply contained no questions", zap.String("query", query))
	}

	recordHistory(ctx, s.history, s.log, types.HistoryRecord{
		Kind:      types.HISTORY_KIND_QUESTIONS,
		Query:     query,
		Questions: questions.Entries(),
	})
	return &GenerationResult{Raw: raw, Questions: questions}, nil
}

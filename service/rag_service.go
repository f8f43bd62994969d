package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/database"
	"github.com/tieubaoca/feasibility-be/repository"
	"github.com/tieubaoca/feasibility-be/types"
)

type RAGConfig struct {
	K              int
	ScoreThreshold float64
}

// RAGService answers a query with the prompt grounded on the most similar
// uploaded document chunks.
type RAGService struct {
	store    database.VectorStore
	embedder Embedder
	ai       AIService
	prompt   *PromptBuilder
	history  repository.HistoryRepo
	config   RAGConfig
	log      *zap.Logger
}

// NewRAGService builds the service. embedder may be nil, in which case the
// vector store vectorizes the query text itself.
func NewRAGService(
	store database.VectorStore,
	embedder Embedder,
	ai AIService,
	prompt *PromptBuilder,
	history repository.HistoryRepo,
	config RAGConfig,
	log *zap.Logger,
) *RAGService {
	if prompt == nil {
		prompt = NewPromptBuilder()
	}
	if log == nil {
		log = zap.L()
	}
	return &RAGService{
		store:    store,
		embedder: embedder,
		ai:       ai,
		prompt:   prompt,
		history:  history,
		config:   config,
		log:      log,
	}
}

func (s *RAGService) Ask(ctx context.Context, query string) (*types.AskResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	chunks, err := s.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	s.log.Debug("retrieved chunks", zap.Int("count", len(chunks)), zap.Int("k", s.config.K))

	documents := make([]string, 0, len(chunks))
	sources := make([]types.Source, 0, len(chunks))
	for _, chunk := range chunks {
		documents = append(documents, chunk.Content)
		sources = append(sources, types.Source{
			Source:      chunk.Metadata.Source,
			PageContent: chunk.Content,
		})
	}

	prompt, err := s.prompt.Build(PromptData{Project: query, Documents: documents})
	if err != nil {
		return nil, err
	}
	answer, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("answering query: %w", err)
	}

	recordHistory(ctx, s.history, s.log, types.HistoryRecord{
		Kind:   types.HISTORY_KIND_ASK,
		Query:  query,
		Answer: answer,
	})
	return &types.AskResponse{
		Answer:  answer,
		Sources: sources,
	}, nil
}

func (s *RAGService) retrieve(ctx context.Context, query string) ([]types.RetrievedChunk, error) {
	var vector []float32
	if s.embedder != nil {
		vectors, err := s.embedder.Embed(ctx, []string{query})
		if err != nil {
			return nil, err
		}
		vector = vectors[0]
	}

	chunks, err := s.store.SearchSimilar(ctx, query, vector, s.config.K, s.config.ScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving documents: %v", ErrUpstream, err)
	}
	return chunks, nil
}

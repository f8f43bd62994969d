package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const EMBED_BATCH_SIZE = 64

// Embedder turns texts into vectors, one per text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

var _ Embedder = (*OpenAIEmbedder)(nil)

func NewOpenAIEmbedder(baseURL, apiKey, model string) *OpenAIEmbedder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += EMBED_BATCH_SIZE {
		end := start + EMBED_BATCH_SIZE
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: embeddings: %v", ErrUpstream, err)
		}
		for _, item := range resp.Data {
			idx := start + item.Index
			if item.Index < 0 || idx >= end {
				return nil, fmt.Errorf("%w: embeddings: index %d out of range", ErrUpstream, item.Index)
			}
			vectors[idx] = item.Embedding
		}
	}

	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: embeddings: missing vector for input %d", ErrUpstream, i)
		}
	}
	return vectors, nil
}

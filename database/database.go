package database

import (
	"context"

	"github.com/tieubaoca/feasibility-be/types"
)

// VectorStore persists document chunks and answers similarity queries.
type VectorStore interface {
	// InsertChunks stores the chunks. vectors is either nil, letting the store
	// vectorize the content itself, or holds one vector per chunk.
	InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) (int, error)
	// DeleteBySource removes every chunk whose source equals source.
	DeleteBySource(ctx context.Context, source string) error
	// SearchSimilar returns at most limit chunks whose certainty is at least
	// threshold, best match first. A non-nil vector is searched instead of
	// the query text.
	SearchSimilar(ctx context.Context, query string, vector []float32, limit int, threshold float64) ([]types.RetrievedChunk, error)
	// ReInit drops and recreates the collection.
	ReInit(ctx context.Context) error
}

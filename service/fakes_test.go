package service

import (
	"context"
	"sync"

	"github.com/tieubaoca/feasibility-be/types"
)

type fakeAI struct {
	reply   string
	deltas  []string
	err     error
	prompts []string
}

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) CompleteStream(ctx context.Context, prompt string, handler types.StreamHandler) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	full := ""
	for _, delta := range f.deltas {
		full += delta
		if handler != nil {
			handler(delta)
		}
	}
	return full, nil
}

type searchCall struct {
	query     string
	vector    []float32
	limit     int
	threshold float64
}

type fakeStore struct {
	hits      []types.RetrievedChunk
	searchErr error
	insertErr error
	deleted   []string
	inserted  []types.DocumentChunk
	vectors   [][]float32
	searches  []searchCall
	reinits   int
}

func (f *fakeStore) InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, chunks...)
	f.vectors = vectors
	return len(chunks), nil
}

func (f *fakeStore) DeleteBySource(ctx context.Context, source string) error {
	f.deleted = append(f.deleted, source)
	return nil
}

func (f *fakeStore) SearchSimilar(ctx context.Context, query string, vector []float32, limit int, threshold float64) ([]types.RetrievedChunk, error) {
	f.searches = append(f.searches, searchCall{query, vector, limit, threshold})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeStore) ReInit(ctx context.Context) error {
	f.reinits++
	return nil
}

type fakeEmbedder struct {
	calls [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1}
	}
	return vectors, nil
}

type fakeExtractor struct {
	pages []types.PageDocument
	err   error
	paths []string
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, filePath string) ([]types.PageDocument, error) {
	f.paths = append(f.paths, filePath)
	if f.err != nil {
		return nil, f.err
	}
	pages := make([]types.PageDocument, len(f.pages))
	for i, page := range f.pages {
		page.Metadata.Source = filePath
		pages[i] = page
	}
	return pages, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	records []types.HistoryRecord
	err     error
}

func (f *fakeHistory) Create(ctx context.Context, record *types.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeHistory) List(ctx context.Context, limit int64) ([]types.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.HistoryRecord(nil), f.records...), nil
}

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tieubaoca/feasibility-be/repository"
	"github.com/tieubaoca/feasibility-be/types"
)

func newTestFileService(t *testing.T, extractor *fakeExtractor, store *fakeStore, embedder Embedder, history *fakeHistory, maxSize int64) *FileService {
	t.Helper()
	var repo repository.HistoryRepo
	if history != nil {
		repo = history
	}
	return NewFileService(
		FileServiceConfig{UploadDir: filepath.Join(t.TempDir(), "pdf"), MaxUploadSize: maxSize},
		extractor,
		NewTextSplitter(types.DocumentServiceConfig{MaxChunkSize: 40, OverlapSize: 5}),
		store,
		embedder,
		repo,
		nil,
	)
}

func twoPages() []types.PageDocument {
	return []types.PageDocument{
		{Content: "The target market is urban commuters who buy coffee daily.", Metadata: types.DocumentMetadata{Title: "plan.pdf", PageNum: 1, TotalPages: 2}},
		{Content: "Costs are low.", Metadata: types.DocumentMetadata{Title: "plan.pdf", PageNum: 2, TotalPages: 2}},
	}
}

func TestIngestSavesAndIndexes(t *testing.T) {
	extractor := &fakeExtractor{pages: twoPages()}
	store := &fakeStore{}
	history := &fakeHistory{}
	svc := newTestFileService(t, extractor, store, nil, history, 1<<20)

	result, err := svc.Ingest(context.Background(), "my plan.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	wantPath := filepath.Join(svc.UploadDir(), "my_plan.pdf")
	data, err := os.ReadFile(wantPath)
	if err != nil || string(data) != "%PDF-1.4 body" {
		t.Fatalf("saved file = %q, %v", data, err)
	}
	if len(extractor.paths) != 1 || extractor.paths[0] != wantPath {
		t.Fatalf("extracted %v", extractor.paths)
	}
	if len(store.deleted) != 1 || store.deleted[0] != wantPath {
		t.Fatalf("previous chunks not replaced: %v", store.deleted)
	}
	if result.Status != types.STATUS_SUCCESSFULLY_UPLOADED || result.Filename != "my_plan.pdf" || result.DocLen != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.Chunks != len(store.inserted) || result.Chunks < 3 {
		t.Fatalf("chunks = %d, inserted %d", result.Chunks, len(store.inserted))
	}
	for _, chunk := range store.inserted {
		if chunk.Metadata.Source != wantPath {
			t.Fatalf("chunk source = %q", chunk.Metadata.Source)
		}
	}
	if store.vectors != nil {
		t.Fatalf("no embedder configured, vectors must be nil")
	}
	if len(history.records) != 1 || history.records[0].Kind != types.HISTORY_KIND_INGEST {
		t.Fatalf("history = %+v", history.records)
	}
}

func TestIngestEmbedsChunks(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	svc := newTestFileService(t, &fakeExtractor{pages: twoPages()}, store, embedder, nil, 0)

	if _, err := svc.Ingest(context.Background(), "plan.PDF", strings.NewReader("x")); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(embedder.calls) != 1 || len(embedder.calls[0]) != len(store.inserted) {
		t.Fatalf("embedded %v for %d chunks", embedder.calls, len(store.inserted))
	}
	if len(store.vectors) != len(store.inserted) {
		t.Fatalf("got %d vectors for %d chunks", len(store.vectors), len(store.inserted))
	}
}

func TestIngestRejectsNonPDF(t *testing.T) {
	extractor := &fakeExtractor{}
	svc := newTestFileService(t, extractor, &fakeStore{}, nil, nil, 0)
	for _, name := range []string{"notes.txt", "plan.docx", "pdf", ""} {
		if _, err := svc.Ingest(context.Background(), name, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFileType) {
			t.Fatalf("Ingest(%q) err = %v, want ErrUnsupportedFileType", name, err)
		}
	}
	if len(extractor.paths) != 0 {
		t.Fatalf("nothing should be extracted")
	}
}

func TestIngestRejectsTooLarge(t *testing.T) {
	svc := newTestFileService(t, &fakeExtractor{}, &fakeStore{}, nil, nil, 4)

	if _, err := svc.Ingest(context.Background(), "big.pdf", strings.NewReader("12345")); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
	if _, err := os.Stat(filepath.Join(svc.UploadDir(), "big.pdf")); !os.IsNotExist(err) {
		t.Fatalf("oversized upload must not be kept: %v", err)
	}

	if _, err := svc.Ingest(context.Background(), "fits.pdf", strings.NewReader("1234")); err != nil {
		t.Fatalf("a file at the limit must be accepted: %v", err)
	}
}

func TestIngestStoreFailure(t *testing.T) {
	svc := newTestFileService(t, &fakeExtractor{pages: twoPages()}, &fakeStore{insertErr: errors.New("batch failed")}, nil, nil, 0)
	if _, err := svc.Ingest(context.Background(), "plan.pdf", strings.NewReader("x")); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	store := &fakeStore{}
	svc := newTestFileService(t, &fakeExtractor{}, store, nil, nil, 0)
	result, err := svc.Ingest(context.Background(), "blank.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.DocLen != 0 || result.Chunks != 0 || len(store.inserted) != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestIngestFileWithoutHistory(t *testing.T) {
	store := &fakeStore{}
	svc := NewFileService(
		FileServiceConfig{UploadDir: t.TempDir()},
		&fakeExtractor{pages: twoPages()},
		NewTextSplitter(types.DocumentServiceConfig{MaxChunkSize: 40, OverlapSize: 5}),
		store,
		nil,
		nil,
		nil,
	)

	result, err := svc.IngestFile(context.Background(), filepath.Join(svc.UploadDir(), "plan.pdf"))
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if result.Chunks != len(store.inserted) {
		t.Fatalf("chunks = %d, inserted %d", result.Chunks, len(store.inserted))
	}
}

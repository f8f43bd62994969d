package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tieubaoca/feasibility-be/types"
)

func words(n int) string {
	pool := []string{"alpha", "bravo", "delta", "gamma", "hotel", "india", "kilos", "lemon"}
	out := make([]string, n)
	for i := range out {
		out[i] = pool[i%len(pool)]
	}
	return strings.Join(out, " ")
}

func TestTextSplitterRespectsChunkSize(t *testing.T) {
	splitter := NewTextSplitter(types.DocumentServiceConfig{MaxChunkSize: 50, OverlapSize: 10})
	chunks, err := splitter.SplitText(words(100))
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 50 {
			t.Fatalf("chunk %d has %d characters: %q", i, n, chunk)
		}
	}
}

func TestTextSplitterOverlaps(t *testing.T) {
	splitter := NewTextSplitter(types.DocumentServiceConfig{MaxChunkSize: 50, OverlapSize: 10})
	chunks, err := splitter.SplitText(words(60))
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		last := prev[len(prev)-1]
		if !strings.HasPrefix(chunks[i], last) {
			t.Fatalf("chunk %d %q does not start with %q, the end of the previous chunk", i, chunks[i], last)
		}
	}
}

func TestTextSplitterShortText(t *testing.T) {
	splitter := NewTextSplitter(DefaultDocumentServiceConfig)
	chunks, err := splitter.SplitText("A short page.")
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "A short page." {
		t.Fatalf("chunks = %q", chunks)
	}
}

func TestSplitPagesKeepsMetadata(t *testing.T) {
	splitter := NewTextSplitter(types.DocumentServiceConfig{MaxChunkSize: 50, OverlapSize: 10})
	pages := []types.PageDocument{
		{Content: words(30), Metadata: types.DocumentMetadata{Title: "plan.pdf", Source: "pdf/plan.pdf", PageNum: 1, TotalPages: 2}},
		{Content: "Closing page.", Metadata: types.DocumentMetadata{Title: "plan.pdf", Source: "pdf/plan.pdf", PageNum: 2, TotalPages: 2}},
	}
	chunks, err := splitter.SplitPages(pages)
	if err != nil {
		t.Fatalf("SplitPages: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	last := chunks[len(chunks)-1]
	if last.Metadata.PageNum != 2 || last.Metadata.ChunkIndex != 0 || last.Content != "Closing page." {
		t.Fatalf("unexpected last chunk: %+v", last)
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if chunk.Metadata.PageNum != 1 || chunk.Metadata.ChunkIndex != i || chunk.Metadata.Source != "pdf/plan.pdf" {
			t.Fatalf("unexpected chunk %d metadata: %+v", i, chunk.Metadata)
		}
	}
}

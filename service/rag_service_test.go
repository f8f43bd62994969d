package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tieubaoca/feasibility-be/types"
)

func retrieved(source, content string) types.RetrievedChunk {
	return types.RetrievedChunk{
		Content:  content,
		Metadata: types.DocumentMetadata{Source: source},
	}
}

func TestAskReturnsAnswerAndSources(t *testing.T) {
	store := &fakeStore{hits: []types.RetrievedChunk{
		retrieved("pdf/plan.pdf", "The market is growing 8% a year."),
		retrieved("pdf/costs.pdf", "Setup costs are 40k."),
	}}
	ai := &fakeAI{reply: "Q1: What is the growth rate?"}
	history := &fakeHistory{}
	svc := NewRAGService(store, nil, ai, nil, history, RAGConfig{K: 20, ScoreThreshold: 0.1}, nil)

	resp, err := svc.Ask(context.Background(), "coffee carts")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Answer != "Q1: What is the growth rate?" {
		t.Fatalf("answer = %q", resp.Answer)
	}
	want := []types.Source{
		{Source: "pdf/plan.pdf", PageContent: "The market is growing 8% a year."},
		{Source: "pdf/costs.pdf", PageContent: "Setup costs are 40k."},
	}
	if len(resp.Sources) != len(want) {
		t.Fatalf("sources = %+v", resp.Sources)
	}
	for i := range want {
		if resp.Sources[i] != want[i] {
			t.Fatalf("source %d = %+v, want %+v", i, resp.Sources[i], want[i])
		}
	}

	call := store.searches[0]
	if call.query != "coffee carts" || call.vector != nil || call.limit != 20 || call.threshold != 0.1 {
		t.Fatalf("search call = %+v", call)
	}
	prompt := ai.prompts[0]
	for _, part := range []string{"coffee carts", "The market is growing 8% a year.", "Setup costs are 40k."} {
		if !strings.Contains(prompt, part) {
			t.Fatalf("prompt misses %q", part)
		}
	}
	if len(history.records) != 1 || history.records[0].Kind != types.HISTORY_KIND_ASK {
		t.Fatalf("history = %+v", history.records)
	}
}

func TestAskEmbedsQueryWhenEmbedderSet(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	svc := NewRAGService(store, embedder, &fakeAI{reply: "answer"}, nil, nil, RAGConfig{K: 5}, nil)

	resp, err := svc.Ask(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(embedder.calls) != 1 || embedder.calls[0][0] != "abc" {
		t.Fatalf("embedder calls = %v", embedder.calls)
	}
	if got := store.searches[0].vector; len(got) != 2 || got[0] != 3 {
		t.Fatalf("search vector = %v", got)
	}
	if resp.Sources == nil || len(resp.Sources) != 0 {
		t.Fatalf("sources must be an empty list, got %#v", resp.Sources)
	}
}

func TestAskErrors(t *testing.T) {
	svc := NewRAGService(&fakeStore{}, nil, &fakeAI{reply: "x"}, nil, nil, RAGConfig{K: 1}, nil)
	if _, err := svc.Ask(context.Background(), " "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}

	svc = NewRAGService(&fakeStore{searchErr: errors.New("connection refused")}, nil, &fakeAI{reply: "x"}, nil, nil, RAGConfig{K: 1}, nil)
	if _, err := svc.Ask(context.Background(), "q"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}

	svc = NewRAGService(&fakeStore{}, nil, &fakeAI{err: ErrNoResponse}, nil, nil, RAGConfig{K: 1}, nil)
	if _, err := svc.Ask(context.Background(), "q"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("err = %v, want ErrNoResponse", err)
	}
}

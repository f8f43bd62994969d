package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Q1: Who "), genai.Blob{MIMEType: "image/png"}, genai.Text("buys?")}}},
			{Content: nil},
		},
	}
	if got := responseText(resp); got != "Q1: Who buys?" {
		t.Fatalf("responseText = %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Fatalf("responseText(nil) = %q", got)
	}
}

func TestNewGeminiServiceNeedsKeys(t *testing.T) {
	if _, err := NewGeminiService(context.Background(), nil, "gemini-1.5-flash", nil); err == nil {
		t.Fatalf("expected error without API keys")
	}
}

func TestRotateAPIKeySkipsAlreadyRotated(t *testing.T) {
	svc := &GeminiService{apiKeys: []string{"a", "b", "c"}, log: zap.NewNop()}

	// two calls failed on key 0 at the same time
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.rotateAPIKey(0); err != nil {
				t.Errorf("rotateAPIKey: %v", err)
			}
		}()
	}
	wg.Wait()
	if svc.currentKey != 1 {
		t.Fatalf("currentKey = %d, want 1", svc.currentKey)
	}

	if err := svc.rotateAPIKey(1); err != nil {
		t.Fatalf("rotateAPIKey: %v", err)
	}
	if err := svc.rotateAPIKey(2); err != nil {
		t.Fatalf("rotateAPIKey: %v", err)
	}
	if svc.currentKey != 0 {
		t.Fatalf("currentKey = %d, want wrap to 0", svc.currentKey)
	}
}

func TestRotateAPIKeySingleKey(t *testing.T) {
	svc := &GeminiService{apiKeys: []string{"only"}, log: zap.NewNop()}
	if err := svc.rotateAPIKey(0); err == nil {
		t.Fatalf("expected error with a single key")
	}
}

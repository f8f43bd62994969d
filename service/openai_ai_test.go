package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIComplete(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "llama3" || len(body.Messages) != 1 || body.Messages[0].Content != "hello" {
			t.Errorf("request = %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Q1: Why?"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`)
	})

	svc := NewOpenAIService(server.URL+"/v1", "", "llama3", nil)
	got, err := svc.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Q1: Why?" {
		t.Fatalf("got %q", got)
	}
}

func TestOpenAICompleteErrors(t *testing.T) {
	failing := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"model not loaded","type":"server_error"}}`)
	})
	if _, err := NewOpenAIService(failing.URL+"/v1", "", "llama3", nil).Complete(context.Background(), "hi"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}

	empty := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[]}`)
	})
	if _, err := NewOpenAIService(empty.URL+"/v1", "", "llama3", nil).Complete(context.Background(), "hi"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("err = %v, want ErrNoResponse", err)
	}
}

func TestOpenAICompleteStream(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"Q1: Who ", "", "pays?"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var deltas []string
	svc := NewOpenAIService(server.URL+"/v1", "", "llama3", nil)
	full, err := svc.CompleteStream(context.Background(), "hi", func(delta string) {
		deltas = append(deltas, delta)
	})
	if err != nil {
		t.Fatalf("CompleteStream: %v", err)
	}
	if full != "Q1: Who pays?" {
		t.Fatalf("full = %q", full)
	}
	if strings.Join(deltas, "|") != "Q1: Who |pays?" {
		t.Fatalf("deltas = %q", deltas)
	}
}

func TestOpenAIEmbedder(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		// answer out of order to check the index mapping
		var data []string
		for i := len(body.Input) - 1; i >= 0; i-- {
			data = append(data, fmt.Sprintf(`{"object":"embedding","index":%d,"embedding":[%d,0.5]}`, i, len(body.Input[i])))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"object":"list","data":[%s],"model":"nomic-embed-text"}`, strings.Join(data, ","))
	})

	embedder := NewOpenAIEmbedder(server.URL+"/v1", "", "nomic-embed-text")
	vectors, err := embedder.Embed(context.Background(), []string{"a", "bbb"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][0] != 3 {
		t.Fatalf("vectors = %v", vectors)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/tieubaoca/feasibility-be/types"
)

// GeminiService completes prompts with Gemini, moving to the next API key
// when a call fails.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	modelName  string
	// per key index; stays open until Close since calls on an older key may
	// still be in flight
	clients map[int]*genai.Client
	mu      sync.Mutex
	log     *zap.Logger
}

var _ AIService = (*GeminiService)(nil)

func NewGeminiService(ctx context.Context, apiKeys []string, modelName string, log *zap.Logger) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	if log == nil {
		log = zap.L()
	}

	service := &GeminiService{
		apiKeys:   apiKeys,
		modelName: modelName,
		clients:   make(map[int]*genai.Client),
		log:       log,
	}

	service.mu.Lock()
	defer service.mu.Unlock()
	if _, err := service.clientFor(ctx, 0); err != nil {
		return nil, err
	}
	return service, nil
}

// clientFor must be called with mu held.
func (s *GeminiService) clientFor(ctx context.Context, key int) (*genai.Client, error) {
	if client, ok := s.clients[key]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKeys[key]))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	s.clients[key] = client
	return client, nil
}

// currentModel returns the model for the active key and that key's index.
func (s *GeminiService) currentModel(ctx context.Context) (*genai.GenerativeModel, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, err := s.clientFor(ctx, s.currentKey)
	if err != nil {
		return nil, 0, err
	}
	return client.GenerativeModel(s.modelName), s.currentKey, nil
}

// rotateAPIKey moves past the key at index failed. When another caller
// already rotated away from it the newer key is kept.
func (s *GeminiService) rotateAPIKey(failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.apiKeys) == 1 {
		return errors.New("no other API key to rotate to")
	}
	if s.currentKey != failed {
		return nil
	}
	s.currentKey = (failed + 1) % len(s.apiKeys)
	s.log.Info("rotated gemini api key", zap.Int("key_index", s.currentKey))
	return nil
}

func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	model, key, err := s.currentModel(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrUpstream, err)
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.log.Warn("gemini completion failed, rotating key", zap.Int("key_index", key), zap.Error(err))
		if rotateErr := s.rotateAPIKey(key); rotateErr != nil {
			return "", fmt.Errorf("%w: gemini: %v", ErrUpstream, err)
		}
		if model, _, err = s.currentModel(ctx); err != nil {
			return "", fmt.Errorf("%w: gemini: %v", ErrUpstream, err)
		}
		resp, err = model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("%w: gemini: %v", ErrUpstream, err)
		}
	}

	content := responseText(resp)
	if content == "" {
		return "", ErrNoResponse
	}
	return content, nil
}

func (s *GeminiService) CompleteStream(ctx context.Context, prompt string, handler types.StreamHandler) (string, error) {
	model, key, err := s.currentModel(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: gemini stream: %v", ErrUpstream, err)
	}
	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	var full strings.Builder
	rotated := false
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			// Only retry with another key before anything was streamed
			if rotated || full.Len() > 0 {
				return full.String(), fmt.Errorf("%w: gemini stream: %v", ErrUpstream, err)
			}
			if rotateErr := s.rotateAPIKey(key); rotateErr != nil {
				return "", fmt.Errorf("%w: gemini stream: %v", ErrUpstream, err)
			}
			rotated = true
			if model, key, err = s.currentModel(ctx); err != nil {
				return "", fmt.Errorf("%w: gemini stream: %v", ErrUpstream, err)
			}
			iter = model.GenerateContentStream(ctx, genai.Text(prompt))
			continue
		}

		delta := responseText(resp)
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if handler != nil {
			handler(delta)
		}
	}
	if full.Len() == 0 {
		return "", ErrNoResponse
	}
	return full.String(), nil
}

func (s *GeminiService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for key, client := range s.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(s.clients, key)
	}
	return errors.Join(errs...)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var content strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}
	return content.String()
}

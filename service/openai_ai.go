package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/types"
)

// OpenAIService talks to any OpenAI compatible chat endpoint (OpenAI, Ollama,
// LM Studio).
type OpenAIService struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

var _ AIService = (*OpenAIService)(nil)

func NewOpenAIService(baseURL, apiKey, model string, log *zap.Logger) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if log == nil {
		log = zap.L()
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
		log:    log,
	}
}

func (s *OpenAIService) request(prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
}

func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, s.request(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoResponse
	}

	s.log.Debug("chat completion",
		zap.String("model", s.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAIService) CompleteStream(ctx context.Context, prompt string, handler types.StreamHandler) (string, error) {
	req := s.request(prompt)
	req.Stream = true
	stream, err := s.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion stream: %v", ErrUpstream, err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("%w: receiving stream: %v", ErrUpstream, err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
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

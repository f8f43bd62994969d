package service

import (
	"context"

	"github.com/tieubaoca/feasibility-be/types"
)

// AIService is a text completion backend.
type AIService interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteStream calls handler with every delta as it arrives and returns
	// the full completion.
	CompleteStream(ctx context.Context, prompt string, handler types.StreamHandler) (string, error)
}

package service

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/tieubaoca/feasibility-be/types"
)

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 1024,
	OverlapSize:  80,
}

// TextSplitter cuts page text into overlapping chunks, preferring paragraph,
// then line, then word boundaries.
type TextSplitter struct {
	splitter textsplitter.RecursiveCharacter
}

func NewTextSplitter(config types.DocumentServiceConfig) *TextSplitter {
	return &TextSplitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(config.MaxChunkSize),
			textsplitter.WithChunkOverlap(config.OverlapSize),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

func (s *TextSplitter) SplitText(text string) ([]string, error) {
	return s.splitter.SplitText(text)
}

// SplitPages chunks every page, each chunk keeping its page metadata.
func (s *TextSplitter) SplitPages(pages []types.PageDocument) ([]types.DocumentChunk, error) {
	var chunks []types.DocumentChunk
	for _, page := range pages {
		parts, err := s.splitter.SplitText(page.Content)
		if err != nil {
			return nil, fmt.Errorf("splitting page %d: %w", page.Metadata.PageNum, err)
		}
		index := 0
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			metadata := page.Metadata
			metadata.ChunkIndex = index
			chunks = append(chunks, types.DocumentChunk{
				Content:  part,
				Metadata: metadata,
			})
			index++
		}
	}
	return chunks, nil
}

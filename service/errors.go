package service

import "errors"

var (
	ErrEmptyQuery          = errors.New("query is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrNoResponse          = errors.New("no response generated")
	// ErrUpstream wraps failures of the LLM, the embedder or the vector store.
	ErrUpstream = errors.New("upstream service failed")
)

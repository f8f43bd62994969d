package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/database"
	"github.com/tieubaoca/feasibility-be/repository"
	"github.com/tieubaoca/feasibility-be/types"
	"github.com/tieubaoca/feasibility-be/utils"
)

type FileServiceConfig struct {
	UploadDir     string
	MaxUploadSize int64
}

// FileService stores uploaded PDFs and indexes their chunks in the vector
// store.
type FileService struct {
	config    FileServiceConfig
	extractor PageExtractor
	splitter  *TextSplitter
	store     database.VectorStore
	embedder  Embedder
	history   repository.HistoryRepo
	log       *zap.Logger
}

func NewFileService(
	config FileServiceConfig,
	extractor PageExtractor,
	splitter *TextSplitter,
	store database.VectorStore,
	embedder Embedder,
	history repository.HistoryRepo,
	log *zap.Logger,
) *FileService {
	if splitter == nil {
		splitter = NewTextSplitter(DefaultDocumentServiceConfig)
	}
	if log == nil {
		log = zap.L()
	}
	return &FileService{
		config:    config,
		extractor: extractor,
		splitter:  splitter,
		store:     store,
		embedder:  embedder,
		history:   history,
		log:       log,
	}
}

// UploadDir is where ingested files are kept.
func (s *FileService) UploadDir() string {
	return s.config.UploadDir
}

// Ingest saves src as upload_dir/<filename> and replaces the indexed chunks of
// that file with freshly extracted ones.
func (s *FileService) Ingest(ctx context.Context, filename string, src io.Reader) (*types.IngestResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: %q, only .pdf is accepted", ErrUnsupportedFileType, filepath.Ext(filename))
	}
	name := utils.SanitizeFileName(filename)
	if name == "" {
		return nil, fmt.Errorf("%w: invalid file name %q", ErrUnsupportedFileType, filename)
	}

	if s.config.MaxUploadSize > 0 {
		src = &sizeLimitedReader{r: src, remaining: s.config.MaxUploadSize}
	}
	path, err := utils.SaveFile(src, s.config.UploadDir, name)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.config.MaxUploadSize)
		}
		return nil, err
	}
	s.log.Info("saved upload", zap.String("path", path))

	return s.IngestFile(ctx, path)
}

// IngestFile indexes a PDF that is already on disk. The chunks are keyed by
// path, so ingesting the same path again replaces them.
func (s *FileService) IngestFile(ctx context.Context, path string) (*types.IngestResult, error) {
	pages, err := s.extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	chunks, err := s.splitter.SplitPages(pages)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteBySource(ctx, path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	inserted := 0
	if len(chunks) > 0 {
		var vectors [][]float32
		if s.embedder != nil {
			texts := make([]string, len(chunks))
			for i, chunk := range chunks {
				texts[i] = chunk.Content
			}
			if vectors, err = s.embedder.Embed(ctx, texts); err != nil {
				return nil, err
			}
		}
		if inserted, err = s.store.InsertChunks(ctx, chunks, vectors); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}
	s.log.Info("ingested document",
		zap.String("path", path),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", inserted),
	)

	filename := filepath.Base(path)
	recordHistory(ctx, s.history, s.log, types.HistoryRecord{
		Kind:     types.HISTORY_KIND_INGEST,
		Filename: filename,
		Chunks:   inserted,
	})
	return &types.IngestResult{
		Status:   types.STATUS_SUCCESSFULLY_UPLOADED,
		Filename: filename,
		DocLen:   len(pages),
		Chunks:   inserted,
	}, nil
}

// sizeLimitedReader fails with ErrFileTooLarge once more than remaining bytes
// are available from r.
type sizeLimitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *sizeLimitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, ErrFileTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/config"
	"github.com/tieubaoca/feasibility-be/types"
)

const BATCH_SIZE = 200

var documentFields = []graphql.Field{
	{Name: "content"},
	{Name: "title"},
	{Name: "source"},
	{Name: "page"},
	{Name: "totalPages"},
	{Name: "chunkIndex"},
	{Name: "_additional", Fields: []graphql.Field{{Name: "id"}, {Name: "certainty"}}},
}

type WeaviateStore struct {
	client *weaviate.Client
	class  *models.Class
	log    *zap.Logger
}

var _ VectorStore = (*WeaviateStore)(nil)

// NewDocumentClass describes the collection holding the PDF chunks.
func NewDocumentClass(name, text2vec string, moduleConfig map[string]interface{}) *models.Class {
	if text2vec == "" {
		text2vec = "none"
	}
	class := &models.Class{
		Class: name,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "page", DataType: []string{"int"}},
			{Name: "totalPages", DataType: []string{"int"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		Vectorizer:      text2vec,
		VectorIndexType: "hnsw",
	}
	if len(moduleConfig) > 0 {
		class.ModuleConfig = moduleConfig
	}
	return class
}

// splitHost turns "https://host:port" into ("https", "host:port"); a bare
// host defaults to http.
func splitHost(rawHost string) (string, string) {
	scheme := "http"
	if strings.HasPrefix(rawHost, "https://") {
		scheme = "https"
	}
	host := strings.TrimPrefix(rawHost, scheme+"://")
	return scheme, strings.TrimSuffix(host, "/")
}

func NewWeaviateStore(ctx context.Context, cfg config.WeaviateStoreConfig, log *zap.Logger) (*WeaviateStore, error) {
	if log == nil {
		log = zap.L()
	}
	scheme, host := splitHost(cfg.Host)
	wcfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		wcfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
		wcfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     cfg.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	store := &WeaviateStore{
		client: client,
		class:  NewDocumentClass(cfg.Collection, cfg.Text2Vec, cfg.ModuleConfig),
		log:    log,
	}
	if err := store.EnsureClass(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// EnsureClass creates the document class unless it already exists.
func (s *WeaviateStore) EnsureClass(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(s.class.Class).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check class %s: %w", s.class.Class, err)
	}
	if exists {
		return nil
	}
	if err := s.client.Schema().ClassCreator().WithClass(s.class).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %w", s.class.Class, err)
	}
	s.log.Info("created weaviate class", zap.String("class", s.class.Class), zap.String("vectorizer", s.class.Vectorizer))
	return nil
}

func (s *WeaviateStore) ReInit(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(s.class.Class).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete class %s: %w", s.class.Class, err)
	}

	err = s.client.Schema().ClassCreator().WithClass(s.class).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %w", s.class.Class, err)
	}
	return nil
}

func chunkProperties(chunk types.DocumentChunk, createdAt int64) map[string]interface{} {
	return map[string]interface{}{
		"content":    chunk.Content,
		"title":      chunk.Metadata.Title,
		"source":     chunk.Metadata.Source,
		"page":       chunk.Metadata.PageNum,
		"totalPages": chunk.Metadata.TotalPages,
		"chunkIndex": chunk.Metadata.ChunkIndex,
		"createdAt":  createdAt,
	}
}

func (s *WeaviateStore) InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) (int, error) {
	if vectors != nil && len(vectors) != len(chunks) {
		return 0, fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	createdAt := time.Now().Unix()
	total := len(chunks)
	inserted := 0
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			obj := &models.Object{
				Class:      s.class.Class,
				Properties: chunkProperties(chunks[j], createdAt),
			}
			if vectors != nil {
				obj.Vector = vectors[j]
			}
			batcher = batcher.WithObjects(obj)
		}

		resp, err := batcher.Do(ctx)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert batch %d-%d: %w", i, end, err)
		}
		if err := batchErrors(resp); err != nil {
			return inserted, fmt.Errorf("failed to insert batch %d-%d: %w", i, end, err)
		}
		inserted += end - i

		s.log.Debug("inserted batch", zap.Int("from", i), zap.Int("to", end), zap.Int("total", total))
	}

	return inserted, nil
}

func batchErrors(resp []models.ObjectsGetResponse) error {
	var errs []error
	for _, r := range resp {
		if r.Result == nil || r.Result.Errors == nil {
			continue
		}
		for _, item := range r.Result.Errors.Error {
			if item != nil {
				errs = append(errs, errors.New(item.Message))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *WeaviateStore) DeleteBySource(ctx context.Context, source string) error {
	where := filters.Where().
		WithPath([]string{"source"}).
		WithOperator(filters.Equal).
		WithValueText(source)
	resp, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(s.class.Class).
		WithOutput("minimal").
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete chunks of %s: %w", source, err)
	}
	if resp != nil && resp.Results != nil {
		s.log.Debug("deleted previous chunks", zap.String("source", source), zap.Int64("matches", resp.Results.Matches))
	}
	return nil
}

func (s *WeaviateStore) SearchSimilar(ctx context.Context, query string, vector []float32, limit int, threshold float64) ([]types.RetrievedChunk, error) {
	get := s.client.GraphQL().Get().
		WithClassName(s.class.Class).
		WithFields(documentFields...)
	if vector != nil {
		get = get.WithNearVector(s.client.GraphQL().NearVectorArgBuilder().
			WithVector(vector).
			WithCertainty(float32(threshold)))
	} else {
		get = get.WithNearText(s.client.GraphQL().NearTextArgBuilder().
			WithConcepts([]string{query}).
			WithCertainty(float32(threshold)))
	}
	if limit > 0 {
		get = get.WithLimit(limit)
	}

	result, err := get.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("search failed: %s", result.Errors[0].Message)
	}
	return parseChunks(result.Data, s.class.Class)
}

// parseChunks decodes the Get.<class> array of a GraphQL response.
func parseChunks(data map[string]models.JSONObject, class string) ([]types.RetrievedChunk, error) {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected search response: missing Get")
	}
	items, ok := get[class].([]interface{})
	if !ok {
		// no hits comes back as null
		return nil, nil
	}

	chunks := make([]types.RetrievedChunk, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := types.RetrievedChunk{
			Content: stringField(obj, "content"),
			Metadata: types.DocumentMetadata{
				Title:      stringField(obj, "title"),
				Source:     stringField(obj, "source"),
				PageNum:    int(numberField(obj, "page")),
				TotalPages: int(numberField(obj, "totalPages")),
				ChunkIndex: int(numberField(obj, "chunkIndex")),
			},
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			chunk.ID = stringField(additional, "id")
			chunk.Certainty = numberField(additional, "certainty")
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return s
}

func numberField(obj map[string]interface{}, key string) float64 {
	switch n := obj[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

const TEXT2VEC_OLLAMA = "text2vec-ollama"

// NewOllamaModuleConfig configures weaviate to embed through an Ollama server.
// apiEndpoint may be the OpenAI compatible "/v1" URL of the same server.
func NewOllamaModuleConfig(apiEndpoint, embedModel string) map[string]interface{} {
	settings := map[string]interface{}{
		"apiEndpoint": strings.TrimSuffix(strings.TrimRight(apiEndpoint, "/"), "/v1"),
	}
	if embedModel != "" {
		settings["model"] = embedModel
	}
	return map[string]interface{}{
		TEXT2VEC_OLLAMA: settings,
	}
}

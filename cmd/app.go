package cmd

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/config"
	"github.com/tieubaoca/feasibility-be/database"
	"github.com/tieubaoca/feasibility-be/repository"
	"github.com/tieubaoca/feasibility-be/service"
	"github.com/tieubaoca/feasibility-be/types"
)

const HISTORY_COLLECTION = "history"

// app is the service graph shared by the commands.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *database.WeaviateStore
	embedder  service.Embedder
	history   repository.HistoryRepo
	questions *service.QuestionService
	rag       *service.RAGService
	files     *service.FileService
	websocket *service.WebSocketService

	mongoClient *mongo.Client
	gemini      *service.GeminiService
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	store, err := database.NewWeaviateStore(ctx, weaviateConfig(cfg), log.Named("weaviate"))
	if err != nil {
		return nil, err
	}
	a.store = store

	ai, err := a.newAIService(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.EmbeddingModel != "" {
		a.embedder = service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}

	a.history = repository.NewNopHistoryRepo()
	if cfg.MongoURI != "" {
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.mongoClient = client
		collection := client.Database(cfg.MongoDatabase).Collection(HISTORY_COLLECTION)
		if err := repository.EnsureHistoryIndexes(ctx, collection); err != nil {
			log.Warn("failed to create history indexes", zap.Error(err))
		}
		a.history = repository.NewHistoryRepo(collection)
		log.Info("history enabled", zap.String("database", cfg.MongoDatabase))
	}

	prompt := service.NewPromptBuilder()
	a.questions = service.NewQuestionService(ai, prompt, a.history, log.Named("questions"))
	a.rag = service.NewRAGService(store, a.embedder, ai, prompt, a.history, service.RAGConfig{
		K:              cfg.RetrieverK,
		ScoreThreshold: cfg.ScoreThreshold,
	}, log.Named("rag"))
	a.files = service.NewFileService(
		service.FileServiceConfig{
			UploadDir:     cfg.UploadDir,
			MaxUploadSize: cfg.MaxUploadSize,
		},
		service.NewPDFService("", log.Named("pdf")),
		service.NewTextSplitter(types.DocumentServiceConfig{
			MaxChunkSize: cfg.ChunkSize,
			OverlapSize:  cfg.ChunkOverlap,
		}),
		store,
		a.embedder,
		a.history,
		log.Named("files"),
	)
	a.websocket = service.NewWebSocketService(a.questions, log.Named("websocket"))
	return a, nil
}

// weaviateConfig derives the text2vec-ollama settings from the model endpoint
// unless module_config sets them.
func weaviateConfig(cfg *config.Config) config.WeaviateStoreConfig {
	wcfg := cfg.WeaviateStoreConfig
	if wcfg.Text2Vec == database.TEXT2VEC_OLLAMA && len(wcfg.ModuleConfig) == 0 {
		wcfg.ModuleConfig = database.NewOllamaModuleConfig(cfg.AIEndpoint, cfg.EmbeddingModel)
	}
	return wcfg
}

func (a *app) newAIService(ctx context.Context) (service.AIService, error) {
	switch a.cfg.LLMProvider {
	case config.LLM_PROVIDER_GEMINI:
		gemini, err := service.NewGeminiService(ctx, a.cfg.GeminiKeys(), a.cfg.Model, a.log.Named("gemini"))
		if err != nil {
			return nil, err
		}
		a.gemini = gemini
		return gemini, nil
	case config.LLM_PROVIDER_OPENAI:
		return service.NewOpenAIService(a.cfg.AIEndpoint, a.cfg.OpenAIAPIKey, a.cfg.Model, a.log.Named("openai")), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", a.cfg.LLMProvider)
	}
}

// Close releases the clients that hold connections.
func (a *app) Close(ctx context.Context) {
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			a.log.Warn("closing gemini client", zap.Error(err))
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Warn("disconnecting MongoDB", zap.Error(err))
		}
	}
}

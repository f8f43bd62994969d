package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	LLM_PROVIDER_OPENAI = "openai"
	LLM_PROVIDER_GEMINI = "gemini"
)

type Config struct {
	Port           string  `mapstructure:"port"`
	LLMProvider    string  `mapstructure:"llm_provider"`
	AIEndpoint     string  `mapstructure:"ai_endpoint"`
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	OpenAIAPIKey   string  `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  string  `mapstructure:"GEMINI_API_KEY"` // comma separated, rotated on failure
	UploadDir      string  `mapstructure:"upload_dir"`
	MaxUploadSize  int64   `mapstructure:"max_upload_size"`
	ChunkSize      int     `mapstructure:"chunk_size"`
	ChunkOverlap   int     `mapstructure:"chunk_overlap"`
	RetrieverK     int     `mapstructure:"retriever_k"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
	MongoURI       string  `mapstructure:"MONGODB_URI"`
	MongoDatabase  string  `mapstructure:"mongo_database"`
	JWTSecret      string  `mapstructure:"JWT_SECRET"`
	LogLevel       string  `mapstructure:"log_level"`
	Development    bool    `mapstructure:"development"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host         string       `mapstructure:"host"`
	APIKey       string       `mapstructure:"WEAVIATE_APIKEY"`
	Collection   string       `mapstructure:"collection"`
	Text2Vec     string       `mapstructure:"text2vec"`
	ModuleConfig ModuleConfig `mapstructure:"module_config"`
}

type ModuleConfig map[string]interface{}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("llm_provider", LLM_PROVIDER_OPENAI)
	v.SetDefault("ai_endpoint", "http://localhost:11434/v1")
	v.SetDefault("model", "llama3")
	v.SetDefault("upload_dir", "pdf")
	v.SetDefault("max_upload_size", 10<<20)
	v.SetDefault("chunk_size", 1024)
	v.SetDefault("chunk_overlap", 80)
	v.SetDefault("retriever_k", 20)
	v.SetDefault("score_threshold", 0.1)
	v.SetDefault("mongo_database", "feasibility")
	v.SetDefault("log_level", "info")
	v.SetDefault("weaviate_store_config.host", "http://localhost:8080")
	v.SetDefault("weaviate_store_config.collection", "FeasibilityDocument")
	v.SetDefault("weaviate_store_config.text2vec", "text2vec-transformers")
}

// LoadConfig reads the YAML file at configPath, then lets environment
// variables override it. An empty configPath uses defaults and environment only.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Secrets come from the environment (or .env)
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("weaviate_store_config.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.LLMProvider {
	case LLM_PROVIDER_OPENAI, LLM_PROVIDER_GEMINI:
	default:
		errs = append(errs, fmt.Errorf("unknown llm_provider %q", c.LLMProvider))
	}
	if c.LLMProvider == LLM_PROVIDER_GEMINI && len(c.GeminiKeys()) == 0 {
		errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap))
	}
	if c.RetrieverK < 1 {
		errs = append(errs, fmt.Errorf("retriever_k must be at least 1, got %d", c.RetrieverK))
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		errs = append(errs, fmt.Errorf("score_threshold must be in [0, 1], got %v", c.ScoreThreshold))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_size must be positive, got %d", c.MaxUploadSize))
	}
	if c.WeaviateStoreConfig.Collection == "" {
		errs = append(errs, errors.New("weaviate_store_config.collection is required"))
	}
	if c.WeaviateStoreConfig.Text2Vec == "none" && c.EmbeddingModel == "" {
		errs = append(errs, errors.New("embedding_model is required when weaviate text2vec is none"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// GeminiKeys splits the configured Gemini API keys.
func (c *Config) GeminiKeys() []string {
	var keys []string
	for _, key := range strings.Split(c.GeminiAPIKeys, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

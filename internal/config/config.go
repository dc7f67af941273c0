package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	embeddingark "github.com/cloudwego/eino-ext/components/embedding/ark"
	embeddingopenai "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every subsystem's configuration.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Agent  AgentConfig
	Index  IndexConfig
	Upload UploadConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	agent, err := loadAgentConfig()
	if err != nil {
		return nil, err
	}

	index, err := loadIndexConfig()
	if err != nil {
		return nil, err
	}

	upload, err := loadUploadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Agent: agent, Index: index, Upload: upload}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the generation backend. Two providers are supported:
// an OpenAI-compatible endpoint and Volcengine Ark; OpenAI credentials win
// when both are present.
type AIConfig struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string

	// Model is the active model name, resolved from the selected provider.
	Model string

	MaxTokens      int
	Temperature    float64
	Timeout        time.Duration
	StreamResponse bool
}

// Enabled reports whether at least one provider has usable credentials.
func (c AIConfig) Enabled() bool {
	return c.openAIEnabled() || c.arkEnabled()
}

func (c AIConfig) openAIEnabled() bool {
	return c.OpenAIAPIKey != "" && c.OpenAIModel != ""
}

func (c AIConfig) arkEnabled() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

// NewChatModel builds a tool-calling chat model for the selected provider.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ToolCallingChatModel, error) {
	maxTokens := c.MaxTokens
	temperature := float32(c.Temperature)

	if c.openAIEnabled() {
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      c.OpenAIAPIKey,
			Model:       c.OpenAIModel,
			BaseURL:     c.OpenAIBaseURL,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	}

	if c.arkEnabled() {
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     c.ArkBaseURL,
			Region:      c.ArkRegion,
			APIKey:      c.ArkAPIKey,
			AccessKey:   c.ArkAccessKey,
			SecretKey:   c.ArkSecretKey,
			Model:       c.ArkModel,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	}

	return nil, fmt.Errorf("model credentials missing: provide OPENAI_API_KEY + OPENAI_MODEL or ARK_API_KEY + MODEL")
}

// NewEmbedder builds an embedder on the same provider split as the chat
// model.
func (c AIConfig) NewEmbedder(ctx context.Context, embedModel string) (embedding.Embedder, error) {
	if embedModel == "" {
		return nil, fmt.Errorf("embedding model not configured")
	}

	if c.OpenAIAPIKey != "" {
		return embeddingopenai.NewEmbedder(ctx, &embeddingopenai.EmbeddingConfig{
			APIKey:  c.OpenAIAPIKey,
			Model:   embedModel,
			BaseURL: c.OpenAIBaseURL,
		})
	}

	if c.arkEnabled() {
		return embeddingark.NewEmbedder(ctx, &embeddingark.EmbeddingConfig{
			APIKey:  c.ArkAPIKey,
			Model:   embedModel,
			BaseURL: c.ArkBaseURL,
			Region:  c.ArkRegion,
		})
	}

	return nil, fmt.Errorf("embedding credentials missing")
}

func loadAIConfig() (AIConfig, error) {
	maxTokens := 6000
	if override, err := parseOptionalIntEnv("GEN_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	temperature := 0.7
	if override, err := parseOptionalFloatEnv("GEN_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	timeoutSeconds := 120
	if override, err := parseOptionalIntEnv("GEN_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	stream, err := parseBoolEnv("GEN_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),

		ArkAPIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:     strings.TrimSpace(os.Getenv("MODEL")),
		ArkBaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:    getEnvOrDefault("ARK_REGION", "cn-beijing"),

		MaxTokens:      maxTokens,
		Temperature:    temperature,
		Timeout:        time.Duration(timeoutSeconds) * time.Second,
		StreamResponse: stream,
	}

	if cfg.openAIEnabled() {
		cfg.Model = cfg.OpenAIModel
	} else {
		cfg.Model = cfg.ArkModel
	}

	return cfg, nil
}

// AgentConfig bounds the assistant's tool-calling loop.
type AgentConfig struct {
	MaxSteps int
}

func loadAgentConfig() (AgentConfig, error) {
	maxSteps := 10
	if override, err := parseOptionalIntEnv("AGENT_MAX_STEPS"); err != nil {
		return AgentConfig{}, err
	} else if override != nil && *override > 0 {
		maxSteps = *override
	}
	return AgentConfig{MaxSteps: maxSteps}, nil
}

// IndexConfig describes the retrieval index built at process start.
type IndexConfig struct {
	DataDir    string
	StorageDir string
	EmbedModel string
	TopK       int
	ChunkSize  int
}

// Enabled reports whether the index can be built or loaded.
func (c IndexConfig) Enabled() bool {
	return c.EmbedModel != ""
}

func loadIndexConfig() (IndexConfig, error) {
	topK := 4
	if override, err := parseOptionalIntEnv("INDEX_TOP_K"); err != nil {
		return IndexConfig{}, err
	} else if override != nil && *override > 0 {
		topK = *override
	}

	chunkSize := 1200
	if override, err := parseOptionalIntEnv("INDEX_CHUNK_SIZE"); err != nil {
		return IndexConfig{}, err
	} else if override != nil && *override > 0 {
		chunkSize = *override
	}

	return IndexConfig{
		DataDir:    getEnvOrDefault("INDEX_DATA_DIR", "./train_folder"),
		StorageDir: getEnvOrDefault("INDEX_STORAGE_DIR", "storage"),
		EmbedModel: strings.TrimSpace(os.Getenv("EMBED_MODEL")),
		TopK:       topK,
		ChunkSize:  chunkSize,
	}, nil
}

// UploadConfig bounds inbound file uploads.
type UploadConfig struct {
	MaxFileBytes int64
}

func loadUploadConfig() (UploadConfig, error) {
	maxBytes := int64(10 << 20)
	if override, err := parseOptionalIntEnv("UPLOAD_MAX_BYTES"); err != nil {
		return UploadConfig{}, err
	} else if override != nil && *override > 0 {
		maxBytes = int64(*override)
	}
	return UploadConfig{MaxFileBytes: maxBytes}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

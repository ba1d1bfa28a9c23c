package config

import "time"

// Config holds all application configuration.
type Config struct {
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Provider      Provider      `mapstructure:"provider"`
	Analysis      Analysis      `mapstructure:"analysis"`
	Extractor     Extractor     `mapstructure:"extractor"`
	Storage       Storage       `mapstructure:"storage"`
	MCP           MCP           `mapstructure:"mcp"`
}

// Elasticsearch holds ES connection configuration.
type Elasticsearch struct {
	Addresses      []string `mapstructure:"addresses"`
	DocumentsIndex string   `mapstructure:"documents_index"`
	AnalysesIndex  string   `mapstructure:"analyses_index"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
}

// Provider holds configuration for the OpenAI-compatible model provider
// used for embeddings and chat completions.
type Provider struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	ChatModel      string        `mapstructure:"chat_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Temperature    float32       `mapstructure:"temperature"`
}

// Analysis holds document analysis tuning.
type Analysis struct {
	ChunkSize           int `mapstructure:"chunk_size"`
	ChunkOverlap        int `mapstructure:"chunk_overlap"`
	TopK                int `mapstructure:"top_k"`
	MaxSummarySentences int `mapstructure:"max_summary_sentences"`
}

// Extractor holds source fetching configuration.
type Extractor struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Storage holds S3/MinIO source archive configuration.
type Storage struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Elasticsearch: Elasticsearch{
			Addresses:      []string{"http://localhost:9200"},
			DocumentsIndex: "docsense-documents",
			AnalysesIndex:  "docsense-analyses",
		},
		Provider: Provider{
			BaseURL:        "http://localhost:11434/v1",
			EmbeddingModel: "nomic-embed-text",
			ChatModel:      "llama3.1",
			Timeout:        60 * time.Second,
			Temperature:    0.2,
		},
		Analysis: Analysis{
			ChunkSize:           1000,
			ChunkOverlap:        200,
			TopK:                3,
			MaxSummarySentences: 3,
		},
		Extractor: Extractor{
			UserAgent: "docsense/1.0",
			Timeout:   30 * time.Second,
		},
		Storage: Storage{
			Enabled:         false, // Disabled by default, requires MinIO
			Endpoint:        "localhost:9000",
			Bucket:          "docsense",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		MCP: MCP{
			Name:    "docsense",
			Version: "1.0.0",
		},
	}
}

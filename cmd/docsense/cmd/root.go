package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docsense/docsense/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "docsense",
	Short: "DocSense: retrieval-augmented document analysis",
	Long: `DocSense ingests documents, stores them in Elasticsearch, and analyzes
them with a retrieval-augmented model pipeline: chunk, embed, retrieve the most
relevant excerpts, and ask the model for missing topics, a summary, and insights.
When the model provider is unavailable it falls back to a deterministic
heuristic analyzer so an analysis is always produced.

Commands:
  add      Fetch a document from a URL or file and index it
  analyze  Analyze an indexed document
  get      Show a stored document or its analysis
  serve    Start the MCP server exposing analysis tools`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/docsense")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// DOCSENSE_ELASTICSEARCH_ADDRESSES -> elasticsearch.addresses
	viper.SetEnvPrefix("DOCSENSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("elasticsearch.addresses", "DOCSENSE_ELASTICSEARCH_ADDRESSES")
	viper.BindEnv("elasticsearch.documents_index", "DOCSENSE_ELASTICSEARCH_DOCUMENTS_INDEX")
	viper.BindEnv("elasticsearch.analyses_index", "DOCSENSE_ELASTICSEARCH_ANALYSES_INDEX")
	viper.BindEnv("elasticsearch.username", "DOCSENSE_ELASTICSEARCH_USERNAME")
	viper.BindEnv("elasticsearch.password", "DOCSENSE_ELASTICSEARCH_PASSWORD")
	viper.BindEnv("provider.base_url", "DOCSENSE_PROVIDER_BASE_URL")
	viper.BindEnv("provider.api_key", "DOCSENSE_PROVIDER_API_KEY")
	viper.BindEnv("provider.embedding_model", "DOCSENSE_PROVIDER_EMBEDDING_MODEL")
	viper.BindEnv("provider.chat_model", "DOCSENSE_PROVIDER_CHAT_MODEL")
	viper.BindEnv("analysis.chunk_size", "DOCSENSE_ANALYSIS_CHUNK_SIZE")
	viper.BindEnv("analysis.chunk_overlap", "DOCSENSE_ANALYSIS_CHUNK_OVERLAP")
	viper.BindEnv("analysis.top_k", "DOCSENSE_ANALYSIS_TOP_K")
	viper.BindEnv("storage.enabled", "DOCSENSE_STORAGE_ENABLED")
	viper.BindEnv("storage.endpoint", "DOCSENSE_STORAGE_ENDPOINT")
	viper.BindEnv("mcp.name", "DOCSENSE_MCP_NAME")
	viper.BindEnv("mcp.version", "DOCSENSE_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: addresses as comma-separated string from env
	if addrs := os.Getenv("DOCSENSE_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsense/docsense/internal/analyzer"
	"github.com/docsense/docsense/internal/elasticsearch"
	"github.com/docsense/docsense/internal/embeddings"
	"github.com/docsense/docsense/internal/events"
	"github.com/docsense/docsense/internal/llm"
	"github.com/docsense/docsense/internal/pipeline"
	"github.com/docsense/docsense/pkg/models"
)

var (
	analyzeForce  bool
	analyzeFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [document-id]",
	Short: "Analyze an indexed document",
	Long: `Analyze an indexed document: chunk it, retrieve the most relevant
excerpts, and ask the model for missing topics, a summary, and insights.
If an analysis already exists it is returned as-is unless --force is set.
When the model provider fails, a deterministic heuristic analysis is
produced instead.

Examples:
  # Analyze a document (returns cached analysis when present)
  docsense analyze 3f2a1b9c8d7e6f50

  # Re-run the analysis even when cached
  docsense analyze 3f2a1b9c8d7e6f50 --force

  # JSON output for scripting
  docsense analyze 3f2a1b9c8d7e6f50 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeForce, "force", false, "Re-run the analysis even when a cached result exists")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format: text or json")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	documentID := args[0]
	cfg := GetConfig()

	esClient, err := elasticsearch.New(elasticsearch.Config{
		Addresses:      cfg.Elasticsearch.Addresses,
		DocumentsIndex: cfg.Elasticsearch.DocumentsIndex,
		AnalysesIndex:  cfg.Elasticsearch.AnalysesIndex,
		Username:       cfg.Elasticsearch.Username,
		Password:       cfg.Elasticsearch.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	p, err := buildPipeline(esClient)
	if err != nil {
		return err
	}

	analysis, err := p.Execute(ctx, documentID, analyzeForce)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrDocumentNotFound):
			return fmt.Errorf("document not found: %s", documentID)
		case errors.Is(err, pipeline.ErrNotAnalyzable):
			return fmt.Errorf("document cannot be analyzed (deleted, unprocessed, or empty): %s", documentID)
		default:
			return fmt.Errorf("analysis failed: %w", err)
		}
	}

	return printAnalysis(cmd, analysis, analyzeFormat)
}

// buildPipeline wires the retrieval analyzer as primary and the heuristic
// analyzer as fallback over the Elasticsearch-backed stores.
func buildPipeline(esClient *elasticsearch.Client) (*pipeline.Pipeline, error) {
	cfg := GetConfig()

	embedClient, err := embeddings.New(embeddings.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Model:   cfg.Provider.EmbeddingModel,
		Timeout: cfg.Provider.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}

	llmClient, err := llm.New(llm.Config{
		BaseURL:     cfg.Provider.BaseURL,
		APIKey:      cfg.Provider.APIKey,
		Model:       cfg.Provider.ChatModel,
		Timeout:     cfg.Provider.Timeout,
		Temperature: cfg.Provider.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	primary := analyzer.NewRetrieval(embedClient, llmClient, analyzer.RetrievalConfig{
		ChunkSize:    cfg.Analysis.ChunkSize,
		ChunkOverlap: cfg.Analysis.ChunkOverlap,
		TopK:         cfg.Analysis.TopK,
	})
	fallback := analyzer.NewHeuristic(cfg.Analysis.MaxSummarySentences)

	// Stderr keeps the note out of the MCP stdio stream when serving.
	hook := func(e events.AnalysisCompleteEvent) {
		if e.FellBack {
			fmt.Fprintln(os.Stderr, "Note: model provider unavailable, heuristic analysis used")
		}
	}

	return pipeline.New(esClient.Documents(), esClient.Analyses(), primary, fallback, pipeline.WithHook(hook)), nil
}

func printAnalysis(cmd *cobra.Command, analysis *models.Analysis, format string) error {
	if format == "json" {
		output, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analysis %s (document %s)\n", analysis.ID, analysis.DocumentID)
	fmt.Fprintf(out, "Source:      %s\n", analysis.Source)
	fmt.Fprintf(out, "Analyzed at: %s\n", analysis.AnalyzedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "\nSummary:\n%s\n", analysis.Summary)
	if len(analysis.MissingTopics) > 0 {
		fmt.Fprintf(out, "\nMissing topics:\n")
		for _, topic := range analysis.MissingTopics {
			fmt.Fprintf(out, "  - %s\n", topic)
		}
	}
	if len(analysis.Insights) > 0 {
		fmt.Fprintf(out, "\nInsights:\n")
		for _, insight := range analysis.Insights {
			fmt.Fprintf(out, "  - %s\n", insight)
		}
	}
	return nil
}

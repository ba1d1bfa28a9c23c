package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsense/docsense/internal/elasticsearch"
)

var getFormat string

var getCmd = &cobra.Command{
	Use:   "get [document-id]",
	Short: "Show a stored document or its analysis",
	Long: `Show a stored document, and its analysis when one exists.

Examples:
  # Show a document and its analysis
  docsense get 3f2a1b9c8d7e6f50

  # JSON output for scripting
  docsense get 3f2a1b9c8d7e6f50 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&getFormat, "format", "text", "Output format: text or json")
}

func runGet(cmd *cobra.Command, args []string) error {
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

	doc, err := esClient.GetDocumentByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("document not found: %s", documentID)
	}

	analysis, err := esClient.GetAnalysisByDocumentID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	if getFormat == "json" {
		output, err := json.MarshalIndent(map[string]any{
			"document": doc,
			"analysis": analysis,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document %s\n", doc.ID)
	fmt.Fprintf(out, "Name:    %s\n", doc.Name)
	if doc.SourceURL != "" {
		fmt.Fprintf(out, "Source:  %s\n", doc.SourceURL)
	}
	fmt.Fprintf(out, "Status:  %s\n", doc.ProcessingStatus)
	fmt.Fprintf(out, "Created: %s\n", doc.CreatedAt.Format(time.RFC3339))

	// Truncate content for display
	content := doc.Content
	if len(content) > 500 {
		content = content[:500] + "..."
	}
	fmt.Fprintf(out, "\nContent:\n%s\n", content)

	if analysis == nil {
		fmt.Fprintf(out, "\nNo analysis yet. Run 'docsense analyze %s'.\n", doc.ID)
		return nil
	}
	fmt.Fprintln(out)
	return printAnalysis(cmd, analysis, "text")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsense/docsense/internal/elasticsearch"
	"github.com/docsense/docsense/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for document analysis.

The server communicates via stdio and provides three tools:
  - analyze_document: Analyze a document (with optional force_reanalysis)
  - get_analysis: Get the stored analysis for a document
  - get_document: Get a stored document by ID

Example:
  docsense serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	server, err := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, p, esClient)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}

// Package mcp exposes document analysis over the Model Context Protocol
// so MCP clients can trigger and read analyses via stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docsense/docsense/internal/elasticsearch"
	"github.com/docsense/docsense/internal/pipeline"
	"github.com/docsense/docsense/pkg/models"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP server around the analysis pipeline and the
// Elasticsearch-backed stores.
type Server struct {
	mcpServer *server.MCPServer
	pipeline  *pipeline.Pipeline
	esClient  *elasticsearch.Client
}

// NewServer creates a new MCP server with analysis tools.
func NewServer(config Config, p *pipeline.Pipeline, esClient *elasticsearch.Client) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if esClient == nil {
		return nil, fmt.Errorf("elasticsearch client is required")
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		pipeline:  p,
		esClient:  esClient,
	}

	// Register analyze_document tool
	analyzeTool := mcp.NewTool("analyze_document",
		mcp.WithDescription("Analyze a document: extract missing topics, a summary, and insights. Returns the cached analysis unless force_reanalysis is set."),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("ID of the document to analyze"),
		),
		mcp.WithBoolean("force_reanalysis",
			mcp.Description("Re-run the analysis even when a cached result exists (default: false)"),
		),
	)
	mcpServer.AddTool(analyzeTool, s.analyzeHandler)

	// Register get_analysis tool
	getAnalysisTool := mcp.NewTool("get_analysis",
		mcp.WithDescription("Get the stored analysis for a document, if one exists"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("ID of the analyzed document"),
		),
	)
	mcpServer.AddTool(getAnalysisTool, s.getAnalysisHandler)

	// Register get_document tool
	getDocTool := mcp.NewTool("get_document",
		mcp.WithDescription("Get a stored document by ID"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document ID to retrieve"),
		),
	)
	mcpServer.AddTool(getDocTool, s.getDocumentHandler)

	return s, nil
}

// analyzeHandler handles the analyze_document tool call.
func (s *Server) analyzeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id parameter is required"), nil
	}
	force := req.GetBool("force_reanalysis", false)

	analysis, err := s.handleAnalyze(ctx, documentID, force)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrDocumentNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", documentID)), nil
		case errors.Is(err, pipeline.ErrNotAnalyzable):
			return mcp.NewToolResultError(fmt.Sprintf("document cannot be analyzed: %s", documentID)), nil
		case errors.Is(err, pipeline.ErrInvalidInput):
			return mcp.NewToolResultError("document_id must not be blank"), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
		}
	}

	result, err := json.Marshal(analysis)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}

// getAnalysisHandler handles the get_analysis tool call.
func (s *Server) getAnalysisHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id parameter is required"), nil
	}

	analysis, err := s.handleGetAnalysis(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get analysis failed: %v", err)), nil
	}
	if analysis == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no analysis found for document: %s", documentID)), nil
	}

	result, err := json.Marshal(analysis)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}

// getDocumentHandler handles the get_document tool call.
func (s *Server) getDocumentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id parameter is required"), nil
	}

	doc, err := s.handleGetDocument(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get document failed: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", documentID)), nil
	}

	result, err := json.Marshal(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal document: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}

// handleAnalyze runs the analysis pipeline for a document.
func (s *Server) handleAnalyze(ctx context.Context, documentID string, force bool) (*models.Analysis, error) {
	return s.pipeline.Execute(ctx, documentID, force)
}

// handleGetAnalysis retrieves the stored analysis for a document.
func (s *Server) handleGetAnalysis(ctx context.Context, documentID string) (*models.Analysis, error) {
	return s.esClient.GetAnalysisByDocumentID(ctx, documentID)
}

// handleGetDocument retrieves a document by ID.
func (s *Server) handleGetDocument(ctx context.Context, documentID string) (*models.Document, error) {
	return s.esClient.GetDocumentByID(ctx, documentID)
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

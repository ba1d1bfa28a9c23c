package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsense/docsense/internal/config"
	"github.com/docsense/docsense/internal/elasticsearch"
	"github.com/docsense/docsense/internal/events"
	"github.com/docsense/docsense/internal/extractor"
	"github.com/docsense/docsense/internal/storage"
	"github.com/docsense/docsense/pkg/models"
)

var (
	addURL  string
	addFile string
	addName string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Fetch and index a document",
	Long: `Fetch a document from a URL or read it from a local file, extract its
text as markdown, and index it in Elasticsearch so it can be analyzed.

Examples:
  # Index a web page
  docsense add --url https://example.com/contract.html

  # Index a local markdown or HTML file
  docsense add --file ./contract.md --name "Service Contract"`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addURL, "url", "", "URL to fetch")
	addCmd.Flags().StringVar(&addFile, "file", "", "Local file to read")
	addCmd.Flags().StringVar(&addName, "name", "", "Document name (defaults to extracted title or filename)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if (addURL == "") == (addFile == "") {
		return fmt.Errorf("exactly one of --url or --file is required")
	}

	cfg := GetConfig()
	start := time.Now()

	src, err := fetchSource(ctx, cfg.Extractor.UserAgent, cfg.Extractor.Timeout)
	if err != nil {
		return err
	}

	name := addName
	if name == "" {
		name = src.Title
	}
	if name == "" && addFile != "" {
		name = filepath.Base(addFile)
	}
	if name == "" {
		name = src.URL
	}

	doc := models.Document{
		ID:               models.GenerateDocumentID(src.URL),
		Name:             name,
		SourceURL:        src.URL,
		ContentType:      src.ContentType,
		Content:          src.Content,
		ProcessingStatus: models.StatusIndexed,
		CreatedAt:        time.Now().UTC(),
	}

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
	if err := esClient.CreateIndices(ctx); err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	archived := false
	if cfg.Storage.Enabled {
		if err := archiveSource(ctx, cfg.Storage, doc.ID, src); err != nil {
			slog.Warn("failed to archive source", "document_id", doc.ID, "error", err)
		} else {
			archived = true
		}
	}

	if err := esClient.IndexDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	event := events.IngestCompleteEvent{
		DocumentID: doc.ID,
		Title:      doc.Name,
		SourceURL:  doc.SourceURL,
		Bytes:      len(src.Raw),
		Archived:   archived,
		Duration:   time.Since(start),
	}
	slog.Info("document indexed",
		"document_id", event.DocumentID,
		"title", event.Title,
		"bytes", event.Bytes,
		"archived", event.Archived,
		"duration", event.Duration,
	)

	fmt.Printf("Indexed document %s (%q, %d bytes) in %v\n",
		doc.ID, doc.Name, event.Bytes, event.Duration.Round(time.Millisecond))
	fmt.Printf("Run 'docsense analyze %s' to analyze it\n", doc.ID)
	return nil
}

// fetchSource loads the document source from the URL or local file flag.
func fetchSource(ctx context.Context, userAgent string, timeout time.Duration) (*extractor.Source, error) {
	e := extractor.New(extractor.Config{
		UserAgent: userAgent,
		Timeout:   timeout,
	})

	if addURL != "" {
		src, err := e.Fetch(ctx, addURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", addURL, err)
		}
		return src, nil
	}

	raw, err := os.ReadFile(addFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", addFile, err)
	}
	title, content, err := e.Extract(raw, "", addFile)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", addFile, err)
	}
	return &extractor.Source{
		URL:         addFile,
		Title:       title,
		Content:     content,
		Raw:         raw,
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// archiveSource writes the raw source bytes and metadata to object storage.
func archiveSource(ctx context.Context, cfg config.Storage, documentID string, src *extractor.Source) error {
	storageClient, err := storage.New(storage.Config{
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storageClient.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure bucket: %w", err)
	}

	if err := storageClient.PutSource(ctx, documentID, src.ContentType, src.Raw); err != nil {
		return err
	}
	return storageClient.PutMetadata(ctx, documentID, storage.SourceMetadata{
		DocumentID:  documentID,
		SourceURL:   src.URL,
		ContentType: src.ContentType,
		RetrievedAt: src.RetrievedAt.Format(time.RFC3339),
		Bytes:       len(src.Raw),
	})
}

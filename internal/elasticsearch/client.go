package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"github.com/docsense/docsense/pkg/models"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses      []string
	DocumentsIndex string
	AnalysesIndex  string
	Username       string
	Password       string
}

// Client wraps the Elasticsearch client with document and analysis
// storage operations.
type Client struct {
	es             *elasticsearch.Client
	documentsIndex string
	analysesIndex  string
}

// New creates a new Elasticsearch client.
func New(config Config) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{
		es:             es,
		documentsIndex: config.DocumentsIndex,
		analysesIndex:  config.AnalysesIndex,
	}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// documentsMapping defines the ES mapping for managed documents.
var documentsMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"company_id": { "type": "keyword" },
			"name": { "type": "text" },
			"status": { "type": "keyword" },
			"created_by": { "type": "keyword" },
			"source_url": { "type": "keyword" },
			"content_type": { "type": "keyword" },
			"content": { "type": "text", "analyzer": "english" },
			"processing_status": { "type": "keyword" },
			"created_at": { "type": "date" },
			"is_deleted": { "type": "boolean" },
			"deleted_at": { "type": "date" },
			"deleted_by": { "type": "keyword" }
		}
	}
}`

// analysesMapping defines the ES mapping for analysis results. Analyses
// are stored under the document ID so one current result exists per
// document.
var analysesMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"document_id": { "type": "keyword" },
			"missing_topics": { "type": "text", "analyzer": "english" },
			"summary": { "type": "text", "analyzer": "english" },
			"insights": { "type": "text", "analyzer": "english" },
			"source": { "type": "keyword" },
			"analyzed_at": { "type": "date" }
		}
	}
}`

// CreateIndices creates both indices with their mappings, skipping any
// that already exist.
func (c *Client) CreateIndices(ctx context.Context) error {
	for index, mapping := range map[string]string{
		c.documentsIndex: documentsMapping,
		c.analysesIndex:  analysesMapping,
	} {
		if err := c.createIndex(ctx, index, mapping); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) createIndex(ctx context.Context, index, mapping string) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index %s: %s", index, res.String())
	}
	return nil
}

// DeleteIndices removes both indices (for testing/cleanup).
func (c *Client) DeleteIndices(ctx context.Context) error {
	res, err := c.es.Indices.Delete(
		[]string{c.documentsIndex, c.analysesIndex},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// Refresh forces a refresh of both indices (useful for testing).
func (c *Client) Refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.documentsIndex, c.analysesIndex),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// IndexDocument writes a managed document under its ID.
func (c *Client) IndexDocument(ctx context.Context, doc models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := c.es.Index(
		c.documentsIndex,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document (status %d): %s", res.StatusCode, res.String())
	}
	return nil
}

// documentGetResponse represents the ES get response for documents.
type documentGetResponse struct {
	Found  bool            `json:"found"`
	Source models.Document `json:"_source"`
}

// GetDocumentByID retrieves a document, returning nil when absent.
func (c *Client) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	res, err := c.es.Get(c.documentsIndex, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error getting document: %s", res.String())
	}

	var gr documentGetResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !gr.Found {
		return nil, nil
	}
	return &gr.Source, nil
}

// analysisGetResponse represents the ES get response for analyses.
type analysisGetResponse struct {
	Found  bool            `json:"found"`
	Source models.Analysis `json:"_source"`
}

// GetAnalysisByDocumentID retrieves the current analysis for a
// document, returning nil when none is stored.
func (c *Client) GetAnalysisByDocumentID(ctx context.Context, documentID string) (*models.Analysis, error) {
	res, err := c.es.Get(c.analysesIndex, documentID, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error getting analysis: %s", res.String())
	}

	var gr analysisGetResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !gr.Found {
		return nil, nil
	}
	return &gr.Source, nil
}

// SaveAnalysis persists an analysis as the current result for its
// document. The ES document ID is the analyzed document's ID, so a
// concurrent save for the same document resolves to a single current
// row; the analysis gets its own ID assigned here when new.
func (c *Client) SaveAnalysis(ctx context.Context, analysis *models.Analysis) (*models.Analysis, error) {
	if analysis.DocumentID == "" {
		return nil, fmt.Errorf("analysis has no document id")
	}
	saved := *analysis
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	res, err := c.es.Index(
		c.analysesIndex,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(saved.DocumentID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to index analysis: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error indexing analysis (status %d): %s", res.StatusCode, res.String())
	}
	return &saved, nil
}

// DocumentStore adapts the client to the pipeline's document
// repository interface.
type DocumentStore struct{ client *Client }

// Documents returns the document repository view of the client.
func (c *Client) Documents() *DocumentStore { return &DocumentStore{client: c} }

// GetByID loads a document; nil means not found.
func (s *DocumentStore) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return s.client.GetDocumentByID(ctx, id)
}

// AnalysisStore adapts the client to the pipeline's analysis
// repository interface.
type AnalysisStore struct{ client *Client }

// Analyses returns the analysis repository view of the client.
func (c *Client) Analyses() *AnalysisStore { return &AnalysisStore{client: c} }

// GetByDocumentID loads the current analysis; nil means none stored.
func (s *AnalysisStore) GetByDocumentID(ctx context.Context, documentID string) (*models.Analysis, error) {
	return s.client.GetAnalysisByDocumentID(ctx, documentID)
}

// Save persists the analysis as the current result for its document.
func (s *AnalysisStore) Save(ctx context.Context, analysis *models.Analysis) (*models.Analysis, error) {
	return s.client.SaveAnalysis(ctx, analysis)
}

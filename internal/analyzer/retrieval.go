package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/docsense/docsense/internal/chunker"
	"github.com/docsense/docsense/internal/vectorindex"
	"github.com/docsense/docsense/pkg/models"
)

// CompletionClient sends a prompt to a language model.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// analysisQuestion is the fixed retrieval instruction; the chunks most
// similar to it form the model's context.
const analysisQuestion = "Identify missing topics, produce a summary, and produce insights for this document."

// RetrievalConfig tunes the retrieval-augmented strategy.
type RetrievalConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// Retrieval is the model-backed strategy: chunk the document, build an
// ephemeral embedding index, retrieve the most relevant chunks, and ask
// the language model for a structured analysis. Stateless across calls;
// each run recomputes from scratch since the document may have changed.
type Retrieval struct {
	splitter *chunker.Splitter
	embedder vectorindex.Embedder
	llm      CompletionClient
	topK     int
}

// NewRetrieval creates the retrieval-augmented analyzer.
func NewRetrieval(embedder vectorindex.Embedder, llm CompletionClient, cfg RetrievalConfig) *Retrieval {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Retrieval{
		splitter: chunker.New(cfg.ChunkSize, cfg.ChunkOverlap, nil),
		embedder: embedder,
		llm:      llm,
		topK:     topK,
	}
}

// Analyze runs the retrieval-augmented pipeline. Any failure surfaces
// as a *ServiceError.
func (r *Retrieval) Analyze(ctx context.Context, doc *models.Document) (*models.Analysis, error) {
	chunks := r.splitter.Split(doc.Content)
	if len(chunks) == 0 {
		return nil, &ServiceError{Stage: "chunk", Err: fmt.Errorf("document %s produced no chunks", doc.ID)}
	}
	slog.Debug("document chunked", "document_id", doc.ID, "chunks", len(chunks))

	idx, err := vectorindex.Build(ctx, r.embedder, chunks)
	if err != nil {
		return nil, &ServiceError{Stage: "index", Err: err}
	}

	relevant, err := idx.Query(ctx, analysisQuestion, r.topK)
	if err != nil {
		return nil, &ServiceError{Stage: "retrieve", Err: err}
	}

	raw, err := r.llm.Complete(ctx, buildPrompt(doc.Name, relevant))
	if err != nil {
		return nil, &ServiceError{Stage: "complete", Err: err}
	}

	parsed, err := parseAnalysis(raw)
	if err != nil {
		return nil, &ServiceError{Stage: "parse", Err: err}
	}

	analysis := &models.Analysis{
		DocumentID:    doc.ID,
		MissingTopics: parsed.MissingTopics,
		Summary:       strings.TrimSpace(parsed.Summary),
		Insights:      parsed.Insights,
		Source:        models.SourceRetrieval,
		AnalyzedAt:    time.Now().UTC(),
	}
	if !analysis.HasMeaningfulAnalysis() {
		return nil, &ServiceError{Stage: "parse", Err: fmt.Errorf("model returned no meaningful analysis")}
	}
	return analysis, nil
}

// buildPrompt assembles the retrieved context and the structured-output
// instruction for the model.
func buildPrompt(name string, chunks []models.Chunk) string {
	var b strings.Builder
	b.WriteString("You are an expert document analyst. Analyze the document excerpts below carefully and base your answer only on what is actually present in them.\n\n")
	fmt.Fprintf(&b, "Document: %s\n\nExcerpts:\n", name)
	for _, c := range chunks {
		fmt.Fprintf(&b, "--- excerpt %d ---\n%s\n", c.Index, c.Text)
	}
	b.WriteString(`
Respond with ONLY a JSON object, no prose and no code fences, with exactly these keys:
  "missing_topics": array of strings naming topics or sections the document should cover but does not
  "summary": a concise 2-3 sentence summary of the document's content and purpose
  "insights": array of 3-5 strings with observations about quality, completeness, and notable content

Do not list a topic as missing when the excerpts cover it. Be specific and factual.`)
	return b.String()
}

// analysisPayload mirrors the structure the model is required to emit.
// Pointer fields distinguish absent keys from empty values.
type analysisPayload struct {
	MissingTopics *[]string `json:"missing_topics"`
	Summary       *string   `json:"summary"`
	Insights      *[]string `json:"insights"`
}

// parsedAnalysis is validated model output.
type parsedAnalysis struct {
	MissingTopics []string
	Summary       string
	Insights      []string
}

// parseAnalysis validates model output against the required shape.
// Output that does not parse into exactly the three expected fields is
// rejected outright; partial results are never coerced into a value.
func parseAnalysis(raw string) (*parsedAnalysis, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, fmt.Errorf("empty model output")
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()

	var payload analysisPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("model output is not the required JSON object: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON object")
	}

	if payload.Summary == nil || payload.MissingTopics == nil || payload.Insights == nil {
		return nil, fmt.Errorf("model output is missing required fields")
	}
	if strings.TrimSpace(*payload.Summary) == "" {
		return nil, fmt.Errorf("model output has an empty summary")
	}

	return &parsedAnalysis{
		MissingTopics: compact(*payload.MissingTopics),
		Summary:       *payload.Summary,
		Insights:      compact(*payload.Insights),
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence if the model
// added one despite instructions.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// compact trims entries and drops blanks, preserving order.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

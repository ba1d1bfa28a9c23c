// Package pipeline orchestrates document analysis: cache lookup,
// strategy selection with fallback, and persistence of the outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/docsense/docsense/internal/analyzer"
	"github.com/docsense/docsense/internal/events"
	"github.com/docsense/docsense/pkg/models"
)

// Failure kinds that cross the pipeline boundary. Model-backed analysis
// failures never do; they are absorbed by the fallback.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotAnalyzable    = errors.New("document cannot be analyzed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DocumentRepository loads documents. A nil document with a nil error
// means the document does not exist.
type DocumentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
}

// AnalysisRepository is the persistence boundary for analyses. A nil
// analysis with a nil error from GetByDocumentID means no stored result.
// Save assigns an ID when the analysis has none and must replace any
// previous result for the same document atomically.
type AnalysisRepository interface {
	GetByDocumentID(ctx context.Context, documentID string) (*models.Analysis, error)
	Save(ctx context.Context, analysis *models.Analysis) (*models.Analysis, error)
}

// Hook receives a notification after each persisted analysis.
type Hook func(events.AnalysisCompleteEvent)

// Pipeline runs the analyze-document use case.
type Pipeline struct {
	documents DocumentRepository
	analyses  AnalysisRepository
	primary   analyzer.Analyzer
	fallback  analyzer.Analyzer
	hook      Hook
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHook registers a completion hook.
func WithHook(h Hook) Option {
	return func(p *Pipeline) { p.hook = h }
}

// New creates a Pipeline. primary is the model-backed strategy and
// fallback the heuristic one; both are required.
func New(documents DocumentRepository, analyses AnalysisRepository, primary, fallback analyzer.Analyzer, opts ...Option) *Pipeline {
	p := &Pipeline{
		documents: documents,
		analyses:  analyses,
		primary:   primary,
		fallback:  fallback,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute analyzes the document with the given ID. Without force, a
// previously stored analysis is returned unchanged. Otherwise the
// model-backed strategy runs; if it fails with a *analyzer.ServiceError
// the heuristic strategy takes over and the caller still receives a
// successful result. The outcome is persisted before returning.
func (p *Pipeline) Execute(ctx context.Context, documentID string, force bool) (*models.Analysis, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}

	doc, err := p.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", documentID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}
	if !doc.CanBeAnalyzed() {
		return nil, fmt.Errorf("%w: %s", ErrNotAnalyzable, documentID)
	}

	if !force {
		existing, err := p.analyses.GetByDocumentID(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("load stored analysis for %s: %w", documentID, err)
		}
		if existing != nil {
			slog.Debug("returning stored analysis", "document_id", documentID, "analysis_id", existing.ID)
			return existing, nil
		}
	}

	start := time.Now()
	fellBack := false

	result, err := p.primary.Analyze(ctx, doc)
	if err != nil {
		if ctx.Err() != nil {
			// Request cancelled; nothing gets persisted.
			return nil, fmt.Errorf("analysis cancelled for %s: %w", documentID, ctx.Err())
		}
		var svcErr *analyzer.ServiceError
		if !errors.As(err, &svcErr) {
			return nil, fmt.Errorf("analyze document %s: %w", documentID, err)
		}

		slog.Warn("model-backed analysis failed, using heuristic fallback",
			"document_id", documentID, "stage", svcErr.Stage, "error", svcErr.Err)
		fellBack = true

		result, err = p.fallback.Analyze(ctx, doc)
		if err != nil {
			// The heuristic path must not fail for an analyzable
			// document; this is a contract violation, not a branch.
			return nil, fmt.Errorf("fallback analysis for %s: %w", documentID, err)
		}
	}

	result.DocumentID = doc.ID

	saved, err := p.analyses.Save(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("persist analysis for %s: %w", documentID, err)
	}

	slog.Info("document analyzed",
		"document_id", documentID, "analysis_id", saved.ID,
		"source", saved.Source, "duration", time.Since(start))

	if p.hook != nil {
		p.hook(events.AnalysisCompleteEvent{
			DocumentID: doc.ID,
			AnalysisID: saved.ID,
			Source:     saved.Source,
			FellBack:   fellBack,
			Duration:   time.Since(start),
		})
	}
	return saved, nil
}

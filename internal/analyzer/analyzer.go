// Package analyzer provides the two document analysis strategies: a
// retrieval-augmented, model-backed analyzer and a deterministic
// heuristic fallback. Both satisfy the same Analyzer contract so the
// pipeline can swap between them.
package analyzer

import (
	"context"
	"fmt"

	"github.com/docsense/docsense/pkg/models"
)

// Analyzer produces a structured analysis for a document.
type Analyzer interface {
	Analyze(ctx context.Context, doc *models.Document) (*models.Analysis, error)
}

// ServiceError marks an unrecoverable failure of the model-backed
// analysis path: zero chunks, index construction failure, a failed
// model call, or unparseable model output. The pipeline catches exactly
// this kind and falls back to the heuristic analyzer.
type ServiceError struct {
	Stage string // chunk, index, retrieve, complete, parse
	Err   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("analysis service (%s): %v", e.Stage, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/docsense/docsense/pkg/models"
)

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is a per-analysis similarity index over chunk embeddings.
// An Index is built for one document run and discarded afterwards;
// it is never shared between requests.
type Index struct {
	embedder Embedder
	chunks   []models.Chunk
	vectors  [][]float32
}

// Build embeds all chunks and returns a queryable index.
func Build(ctx context.Context, embedder Embedder, chunks []models.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks to index")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	return &Index{
		embedder: embedder,
		chunks:   chunks,
		vectors:  vectors,
	}, nil
}

// Query returns up to k chunks ordered by descending cosine similarity
// to the question, ties broken by ascending chunk index.
func (ix *Index) Query(ctx context.Context, question string, k int) ([]models.Chunk, error) {
	if k <= 0 {
		k = 3
	}

	qv, err := ix.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	type scored struct {
		chunk models.Chunk
		score float64
	}
	results := make([]scored, len(ix.chunks))
	for i := range ix.chunks {
		results[i] = scored{chunk: ix.chunks[i], score: cosine(ix.vectors[i], qv[0])}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].chunk.Index < results[j].chunk.Index
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]models.Chunk, k)
	for i := 0; i < k; i++ {
		out[i] = results[i].chunk
	}
	return out, nil
}

// cosine computes cosine similarity between two vectors. Vectors of
// mismatched length are compared over the shorter prefix; zero vectors
// score zero.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

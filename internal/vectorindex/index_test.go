package vectorindex

import (
	"context"
	"errors"
	"testing"

	"github.com/docsense/docsense/pkg/models"
)

// mapEmbedder returns fixed vectors per exact text.
type mapEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (m *mapEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, txt := range texts {
		v, ok := m.vectors[txt]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func testChunks(texts ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(texts))
	for i, txt := range texts {
		chunks[i] = models.Chunk{Index: i, Text: txt}
	}
	return chunks
}

func TestBuild_NoChunks(t *testing.T) {
	_, err := Build(context.Background(), &mapEmbedder{}, nil)
	if err == nil {
		t.Fatal("Build() should fail with no chunks")
	}
}

func TestBuild_EmbedderFailure(t *testing.T) {
	embedder := &mapEmbedder{err: errors.New("quota exceeded")}
	_, err := Build(context.Background(), embedder, testChunks("a", "b"))
	if err == nil {
		t.Fatal("Build() should surface embedder failure")
	}
}

func TestQuery_OrdersBySimilarity(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"payment terms":  {1, 0, 0},
		"delivery dates": {0, 1, 0},
		"intro":          {0.5, 0.5, 0},
		"question":       {1, 0.1, 0},
	}}

	idx, err := Build(context.Background(), embedder, testChunks("payment terms", "delivery dates", "intro"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), "question", 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Text != "payment terms" {
		t.Errorf("top chunk = %q, want %q", got[0].Text, "payment terms")
	}
	if got[1].Text != "intro" {
		t.Errorf("second chunk = %q, want %q", got[1].Text, "intro")
	}
}

func TestQuery_TieBreakByChunkIndex(t *testing.T) {
	// All chunks identical to the query: every score ties, so ordering
	// must fall back to ascending chunk index.
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"same a":   {1, 0, 0},
		"same b":   {1, 0, 0},
		"same c":   {1, 0, 0},
		"question": {1, 0, 0},
	}}

	idx, err := Build(context.Background(), embedder, testChunks("same a", "same b", "same c"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), "question", 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for i, c := range got {
		if c.Index != i {
			t.Errorf("position %d holds chunk index %d, want %d", i, c.Index, i)
		}
	}
}

func TestQuery_KLargerThanChunks(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{}}
	idx, err := Build(context.Background(), embedder, testChunks("only"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d chunks, want 1", len(got))
	}
}

func TestQuery_EmbedderFailure(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{}}
	idx, err := Build(context.Background(), embedder, testChunks("a"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	embedder.err = errors.New("timeout")
	if _, err := idx.Query(context.Background(), "q", 3); err == nil {
		t.Fatal("Query() should surface embedder failure")
	}
}

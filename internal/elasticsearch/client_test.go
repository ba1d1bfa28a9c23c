package elasticsearch

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/docsense/docsense/pkg/models"
)

func skipIfNoES(t *testing.T) {
	if os.Getenv("SKIP_ES_TESTS") == "1" {
		t.Skip("Skipping ES tests (SKIP_ES_TESTS=1)")
	}

	client, err := New(testConfig("test-skip-check"))
	if err != nil {
		t.Skipf("Skipping ES tests: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping ES tests: Elasticsearch not available")
	}
}

func testConfig(prefix string) Config {
	return Config{
		Addresses:      []string{"http://localhost:9200"},
		DocumentsIndex: prefix + "-documents",
		AnalysesIndex:  prefix + "-analyses",
	}
}

func TestClient_CreateIndices(t *testing.T) {
	skipIfNoES(t)

	client, err := New(testConfig("docsense-test-create"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	client.DeleteIndices(ctx)

	if err := client.CreateIndices(ctx); err != nil {
		t.Fatalf("CreateIndices() error = %v", err)
	}
	// Creating again should not error (idempotent).
	if err := client.CreateIndices(ctx); err != nil {
		t.Fatalf("CreateIndices() second call error = %v", err)
	}

	client.DeleteIndices(ctx)
}

func TestClient_DocumentRoundTrip(t *testing.T) {
	skipIfNoES(t)

	client, err := New(testConfig("docsense-test-docs"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	client.DeleteIndices(ctx)
	if err := client.CreateIndices(ctx); err != nil {
		t.Fatalf("CreateIndices() error = %v", err)
	}
	defer client.DeleteIndices(ctx)

	doc := models.Document{
		ID:               "doc-1",
		Name:             "Service Contract",
		Content:          "Payment terms apply.",
		ProcessingStatus: models.StatusIndexed,
		CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := client.IndexDocument(ctx, doc); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}
	client.Refresh(ctx)

	got, err := client.GetDocumentByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetDocumentByID() error = %v", err)
	}
	if got == nil || got.Name != doc.Name {
		t.Errorf("GetDocumentByID() = %+v, want name %q", got, doc.Name)
	}

	missing, err := client.GetDocumentByID(ctx, "no-such-doc")
	if err != nil {
		t.Fatalf("GetDocumentByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetDocumentByID(missing) = %+v, want nil", missing)
	}
}

func TestClient_AnalysisUpsert(t *testing.T) {
	skipIfNoES(t)

	client, err := New(testConfig("docsense-test-analyses"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	client.DeleteIndices(ctx)
	if err := client.CreateIndices(ctx); err != nil {
		t.Fatalf("CreateIndices() error = %v", err)
	}
	defer client.DeleteIndices(ctx)

	first, err := client.SaveAnalysis(ctx, &models.Analysis{
		DocumentID: "doc-1",
		Summary:    "First pass.",
		Insights:   []string{"a"},
		AnalyzedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if first.ID == "" {
		t.Error("SaveAnalysis() should assign an ID")
	}

	second, err := client.SaveAnalysis(ctx, &models.Analysis{
		DocumentID: "doc-1",
		Summary:    "Second pass.",
		Insights:   []string{"b"},
		AnalyzedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() second error = %v", err)
	}
	if second.ID == first.ID {
		t.Error("replacement analysis should carry a new ID")
	}
	client.Refresh(ctx)

	// Only the latest result is current.
	current, err := client.GetAnalysisByDocumentID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetAnalysisByDocumentID() error = %v", err)
	}
	if current == nil || current.ID != second.ID {
		t.Errorf("current analysis = %+v, want ID %q", current, second.ID)
	}

	none, err := client.GetAnalysisByDocumentID(ctx, "doc-2")
	if err != nil {
		t.Fatalf("GetAnalysisByDocumentID(absent) error = %v", err)
	}
	if none != nil {
		t.Errorf("GetAnalysisByDocumentID(absent) = %+v, want nil", none)
	}
}

func TestSaveAnalysis_RequiresDocumentID(t *testing.T) {
	client, err := New(testConfig("docsense-test-validate"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.SaveAnalysis(context.Background(), &models.Analysis{Summary: "s"})
	if err == nil {
		t.Fatal("SaveAnalysis() should reject an analysis without document id")
	}
}

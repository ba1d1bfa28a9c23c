package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/docsense/docsense/pkg/models"
)

// serviceContract is a three-paragraph service contract with payment,
// liability, and dispute terms but no termination clause.
const serviceContract = `This service agreement is made between Acme Corp and the client, signed by both parties on 2024-03-01. The provider will deliver consulting services as described below.

Payment terms: the client shall pay invoices within thirty days. Liability of the provider is limited to the fees paid. Force majeure events suspend the obligations of both parties.

Any dispute arising from this agreement will be resolved through arbitration. This document represents the entire understanding between the parties.`

func TestHeuristic_ServiceContractScenario(t *testing.T) {
	h := NewHeuristic(3)
	doc := &models.Document{
		ID:               "doc-1",
		Name:             "Consulting Services Contract",
		Status:           "draft",
		Content:          serviceContract,
		ProcessingStatus: models.StatusIndexed,
	}

	analysis, err := h.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var hasTermination bool
	for _, topic := range analysis.MissingTopics {
		if strings.Contains(strings.ToLower(topic), "termination") {
			hasTermination = true
		}
	}
	if !hasTermination {
		t.Errorf("MissingTopics = %v, want a termination-related entry", analysis.MissingTopics)
	}

	if strings.TrimSpace(analysis.Summary) == "" {
		t.Error("Summary should not be empty")
	}
	if len(analysis.Insights) == 0 {
		t.Error("Insights should not be empty")
	}
	if !analysis.IsComplete() {
		t.Error("IsComplete() should be true for the contract scenario")
	}
	if analysis.Source != models.SourceHeuristic {
		t.Errorf("Source = %q, want %q", analysis.Source, models.SourceHeuristic)
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	h := NewHeuristic(3)
	doc := &models.Document{ID: "d", Name: "Contract", Content: serviceContract, ProcessingStatus: models.StatusIndexed}

	first, _ := h.Analyze(context.Background(), doc)
	second, _ := h.Analyze(context.Background(), doc)

	if first.Summary != second.Summary {
		t.Error("summary should be reproducible")
	}
	if strings.Join(first.MissingTopics, "|") != strings.Join(second.MissingTopics, "|") {
		t.Error("missing topics should be reproducible")
	}
	if strings.Join(first.Insights, "|") != strings.Join(second.Insights, "|") {
		t.Error("insights should be reproducible")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		docName string
		content string
		want    string
	}{
		{"contract by name", "service contract", "plain text", typeContract},
		{"agreement in content", "untitled", "this agreement binds the parties", typeContract},
		{"proposal", "project proposal", "scope and budget", typeProposal},
		{"power of attorney", "poa", "this power of attorney grants authority", typeLegal},
		{"policy", "privacy policy", "data handling rules", typeLegal},
		{"generic", "meeting notes", "we discussed the roadmap", typeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.docName, tt.content); got != tt.want {
				t.Errorf("classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeuristic_GeneralDocument(t *testing.T) {
	h := NewHeuristic(3)
	doc := &models.Document{
		ID:               "doc-2",
		Name:             "Meeting notes",
		Content:          "We discussed the roadmap. Next steps were assigned.",
		ProcessingStatus: models.StatusIndexed,
	}

	analysis, err := h.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !analysis.HasMeaningfulAnalysis() {
		t.Error("general documents should still get a meaningful analysis")
	}
	if len(analysis.MissingTopics) == 0 {
		t.Error("general documents get generic completeness topics")
	}
}

func TestHeuristic_StructuralInsights(t *testing.T) {
	h := NewHeuristic(3)
	doc := &models.Document{
		ID:               "doc-3",
		Name:             "Short contract",
		Content:          "A contract between two parties.",
		ProcessingStatus: models.StatusIndexed,
	}

	analysis, err := h.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	joined := strings.Join(analysis.Insights, " | ")
	if !strings.Contains(joined, "No dates") {
		t.Errorf("expected a missing-dates insight, got %v", analysis.Insights)
	}
}

func TestTopicPresent(t *testing.T) {
	if topicPresent("Termination clauses", "nothing about ending the deal") {
		t.Error("termination should be reported missing")
	}
	if !topicPresent("Payment terms and conditions", "the client shall pay payment on invoice terms") {
		t.Error("payment should be detected as present")
	}
}

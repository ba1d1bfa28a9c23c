package models

import (
	"testing"
	"time"
)

func TestAnalysis_HasMeaningfulAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		analysis Analysis
		want     bool
	}{
		{
			name:     "summary and insights",
			analysis: Analysis{Summary: "A contract.", Insights: []string{"Looks fine."}},
			want:     true,
		},
		{
			name:     "summary and missing topics",
			analysis: Analysis{Summary: "A contract.", MissingTopics: []string{"Termination clauses"}},
			want:     true,
		},
		{
			name:     "summary only",
			analysis: Analysis{Summary: "A contract."},
			want:     false,
		},
		{
			name:     "topics without summary",
			analysis: Analysis{MissingTopics: []string{"Termination clauses"}},
			want:     false,
		},
		{
			name:     "blank summary",
			analysis: Analysis{Summary: "   ", Insights: []string{"x"}},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.analysis.HasMeaningfulAnalysis(); got != tt.want {
				t.Errorf("HasMeaningfulAnalysis() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalysis_IsComplete(t *testing.T) {
	full := Analysis{
		DocumentID:    "d1",
		Summary:       "A service contract.",
		MissingTopics: []string{"Termination clauses"},
		Insights:      []string{"Draft status."},
		AnalyzedAt:    time.Now(),
	}
	if !full.IsComplete() {
		t.Error("IsComplete() should be true when all fields are populated")
	}

	partial := Analysis{DocumentID: "d1", Summary: "A contract.", Insights: []string{"x"}}
	if partial.IsComplete() {
		t.Error("IsComplete() should be false without missing topics")
	}
}

func TestAnalysis_AddMissingTopic(t *testing.T) {
	var a Analysis
	a.AddMissingTopic("  Termination clauses ")
	a.AddMissingTopic("Termination clauses")
	a.AddMissingTopic("")
	a.AddMissingTopic("Governing law")

	want := []string{"Termination clauses", "Governing law"}
	if len(a.MissingTopics) != len(want) {
		t.Fatalf("MissingTopics = %v, want %v", a.MissingTopics, want)
	}
	for i := range want {
		if a.MissingTopics[i] != want[i] {
			t.Errorf("MissingTopics[%d] = %q, want %q", i, a.MissingTopics[i], want[i])
		}
	}
}

func TestAnalysis_AddInsight(t *testing.T) {
	var a Analysis
	a.AddInsight("Document is short.")
	a.AddInsight("Document is short.")
	a.AddInsight("   ")

	if len(a.Insights) != 1 {
		t.Errorf("Insights = %v, want one entry", a.Insights)
	}
}

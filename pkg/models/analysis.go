package models

import (
	"strings"
	"time"
)

// Analysis sources.
const (
	SourceRetrieval = "retrieval"
	SourceHeuristic = "heuristic"
)

// Analysis holds the structured assessment produced for a document.
// AnalyzedAt is set once when the analysis is created; a re-analysis
// produces a new record rather than mutating an existing one.
type Analysis struct {
	ID            string    `json:"id,omitempty"` // assigned on persistence
	DocumentID    string    `json:"document_id"`
	MissingTopics []string  `json:"missing_topics"`
	Summary       string    `json:"summary"`
	Insights      []string  `json:"insights"`
	Source        string    `json:"source,omitempty"` // retrieval or heuristic
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// AddMissingTopic appends a topic, skipping blanks and duplicates.
func (a *Analysis) AddMissingTopic(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}
	for _, existing := range a.MissingTopics {
		if existing == topic {
			return
		}
	}
	a.MissingTopics = append(a.MissingTopics, topic)
}

// AddInsight appends an insight, skipping blanks and duplicates.
func (a *Analysis) AddInsight(insight string) {
	insight = strings.TrimSpace(insight)
	if insight == "" {
		return
	}
	for _, existing := range a.Insights {
		if existing == insight {
			return
		}
	}
	a.Insights = append(a.Insights, insight)
}

// HasMeaningfulAnalysis reports whether the analysis carries a summary
// plus at least one missing topic or insight.
func (a *Analysis) HasMeaningfulAnalysis() bool {
	return strings.TrimSpace(a.Summary) != "" &&
		(len(a.MissingTopics) > 0 || len(a.Insights) > 0)
}

// IsComplete reports whether all three analysis fields are populated.
func (a *Analysis) IsComplete() bool {
	return strings.TrimSpace(a.Summary) != "" &&
		len(a.MissingTopics) > 0 &&
		len(a.Insights) > 0
}

package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/docsense/docsense/internal/summarizer"
	"github.com/docsense/docsense/pkg/models"
)

// Document type classifications.
const (
	typeContract = "contract"
	typeProposal = "proposal"
	typeLegal    = "legal"
	typeGeneral  = "general"
)

// typeMarkers map a document type to the phrases that signal it, checked
// against name and content in order.
var typeMarkers = []struct {
	docType string
	markers []string
}{
	{typeContract, []string{"contract", "agreement"}},
	{typeProposal, []string{"proposal", "quote", "bid"}},
	{typeLegal, []string{"power of attorney", "legal", "terms", "policy"}},
}

// topicChecklists hold the canonical topics each document type should
// cover. A topic whose keywords never appear in the content is reported
// as missing.
var topicChecklists = map[string][]string{
	typeContract: {
		"Payment terms and conditions",
		"Termination clauses",
		"Liability limitations",
		"Dispute resolution procedures",
		"Force majeure provisions",
	},
	typeProposal: {
		"Detailed timeline",
		"Cost breakdown",
		"Risk assessment",
		"Success metrics",
		"Acceptance criteria",
	},
	typeLegal: {
		"Governing law",
		"Jurisdiction clauses",
		"Amendment procedures",
		"Notice requirements",
		"Signature blocks",
	},
}

// typeInsights are fixed review recommendations per document type.
var typeInsights = map[string][]string{
	typeContract: {
		"Ensure all parties have reviewed and agreed to terms",
		"Verify compliance with organizational policies",
	},
	typeProposal: {
		"Review timeline and resource allocation carefully",
		"Ensure all requirements are clearly specified",
	},
	typeLegal: {
		"Legal documentation requires expert review",
		"Ensure compliance with applicable regulations",
	},
}

var (
	datePattern      = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b|\b(?i:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b`)
	signaturePattern = regexp.MustCompile(`(?i)\b(signature|signed by|undersigned|assinatura)\b`)
)

const (
	maxMissingTopics = 5
	maxInsights      = 5
	shortDocChars    = 200
	longDocChars     = 20000
)

// Heuristic is the rule-based fallback strategy. It makes no external
// calls and never fails for a document that passed CanBeAnalyzed, so it
// is the guaranteed-available path.
type Heuristic struct {
	summarizer *summarizer.Extractive
}

// NewHeuristic creates the rule-based analyzer. maxSummarySentences <= 0
// uses the summarizer default.
func NewHeuristic(maxSummarySentences int) *Heuristic {
	return &Heuristic{
		summarizer: summarizer.NewExtractive(maxSummarySentences, 400),
	}
}

// Analyze classifies the document, checks the type's topic checklist
// against the content, and produces an extractive summary plus
// rule-template insights. The error result is always nil; it exists to
// satisfy the Analyzer contract.
func (h *Heuristic) Analyze(_ context.Context, doc *models.Document) (*models.Analysis, error) {
	content := strings.ToLower(doc.Content)
	docType := classify(strings.ToLower(doc.Name), content)

	analysis := &models.Analysis{
		DocumentID: doc.ID,
		Summary:    h.summarize(doc, docType),
		Source:     models.SourceHeuristic,
		AnalyzedAt: time.Now().UTC(),
	}

	for _, topic := range missingTopics(docType, content) {
		analysis.AddMissingTopic(topic)
	}
	for _, insight := range insights(doc, docType) {
		analysis.AddInsight(insight)
	}
	return analysis, nil
}

// classify picks the first document type whose marker appears in the
// name or content.
func classify(name, content string) string {
	for _, tm := range typeMarkers {
		for _, marker := range tm.markers {
			if strings.Contains(name, marker) || strings.Contains(content, marker) {
				return tm.docType
			}
		}
	}
	return typeGeneral
}

// missingTopics returns checklist topics whose keywords all fail to
// appear in the content, capped for practical review.
func missingTopics(docType, content string) []string {
	checklist, ok := topicChecklists[docType]
	if !ok {
		return []string{"Review for completeness", "Verify all required sections"}
	}

	var missing []string
	for _, topic := range checklist {
		if !topicPresent(topic, content) {
			missing = append(missing, topic)
		}
		if len(missing) == maxMissingTopics {
			break
		}
	}
	return missing
}

// topicPresent reports whether any significant keyword of the topic
// occurs in the content.
func topicPresent(topic, content string) bool {
	for _, word := range strings.Fields(strings.ToLower(topic)) {
		if len(word) < 4 { // skip connectives like "and", "of"
			continue
		}
		if strings.Contains(content, word) {
			return true
		}
	}
	return false
}

// insights applies fixed rule templates parameterized by type and
// structural observations.
func insights(doc *models.Document, docType string) []string {
	var out []string

	switch doc.Status {
	case "", "draft":
		out = append(out, "Document is in draft status and may require final review before execution")
	case "pending":
		out = append(out, "Document is pending and may need stakeholder approval")
	}

	out = append(out, typeInsights[docType]...)

	if !datePattern.MatchString(doc.Content) {
		out = append(out, "No dates were found in the document content")
	}
	if !signaturePattern.MatchString(doc.Content) {
		out = append(out, "No signature block was detected")
	}
	if n := len(doc.Content); n < shortDocChars {
		out = append(out, fmt.Sprintf("Document content is very short (%d characters) and may be incomplete", n))
	} else if n > longDocChars {
		out = append(out, "Document is long; consider a section-by-section review")
	}

	if docType == typeGeneral {
		out = append(out, "General business document requiring review")
	}

	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

// summarize builds the extractive summary, prefixed with the document
// name and detected type so even sparse content yields a usable line.
func (h *Heuristic) summarize(doc *models.Document, docType string) string {
	lead := h.summarizer.Summarize(doc.Content)
	if lead == "" {
		return fmt.Sprintf("%s document '%s'; no extractable body text.", capitalize(docType), doc.Name)
	}
	return fmt.Sprintf("%s document '%s'. %s", capitalize(docType), doc.Name, lead)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

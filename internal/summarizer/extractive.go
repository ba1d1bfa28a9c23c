package summarizer

import (
	"regexp"
	"strings"
)

// Extractive builds a summary from the leading sentences of a text,
// bounded by a sentence count and a character cap. No model involved,
// so the output is fully reproducible.
type Extractive struct {
	maxSentences int
	maxChars     int
	sentenceRe   *regexp.Regexp
}

// NewExtractive creates a leading-sentence summarizer. Non-positive
// bounds fall back to 3 sentences / 400 characters.
func NewExtractive(maxSentences, maxChars int) *Extractive {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	if maxChars <= 0 {
		maxChars = 400
	}
	return &Extractive{
		maxSentences: maxSentences,
		maxChars:     maxChars,
		sentenceRe:   regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Summarize returns the leading sentences of text up to the configured
// bounds. Text without sentence punctuation is truncated at the
// character cap.
func (s *Extractive) Summarize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentences := s.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return truncate(text, s.maxChars)
	}

	var parts []string
	total := 0
	for i, sent := range sentences {
		if i >= s.maxSentences {
			break
		}
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		if total > 0 && total+len(sent)+1 > s.maxChars {
			break
		}
		parts = append(parts, sent)
		total += len(sent) + 1
	}
	if len(parts) == 0 {
		return truncate(strings.TrimSpace(sentences[0]), s.maxChars)
	}
	return truncate(strings.Join(parts, " "), s.maxChars)
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return strings.TrimSpace(text[:max])
}

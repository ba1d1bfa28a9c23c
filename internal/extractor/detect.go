package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	mdHeadingRe = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	mdListRe    = regexp.MustCompile(`(?m)^[\-\*]\s+\S`)
	mdLinkRe    = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
)

// isMarkdown decides whether a fetched body is already markdown, by
// content type, URL extension, or content shape.
func isMarkdown(sourceURL, contentType, body string) bool {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "text/markdown") || strings.HasPrefix(ct, "text/x-markdown") {
		return true
	}

	lower := strings.ToLower(sourceURL)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		return true
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" || looksLikeHTML(trimmed) {
		return false
	}
	return mdHeadingRe.MatchString(trimmed) ||
		mdListRe.MatchString(trimmed) ||
		mdLinkRe.MatchString(trimmed)
}

func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	return strings.HasPrefix(lower, "<!doctype") ||
		strings.HasPrefix(lower, "<html") ||
		strings.HasPrefix(lower, "<head") ||
		strings.HasPrefix(lower, "<body")
}

// markdownTitle extracts the first H1 heading from markdown.
func markdownTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return ""
}

// htmlTitle extracts the <title> content from an HTML body.
func htmlTitle(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title == "" {
				walk(c)
			}
		}
	}
	walk(doc)
	return title
}

// Package extractor fetches document sources and turns them into
// analyzable markdown text.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gocolly/colly/v2"
)

// Config holds extractor configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Extractor fetches remote document sources over HTTP and extracts
// their text content.
type Extractor struct {
	config Config
}

// Source is a fetched document source plus its extracted text.
type Source struct {
	URL         string
	Title       string
	Content     string // extracted markdown text
	ContentType string
	Raw         []byte // original body, for archival
	RetrievedAt time.Time
}

// New creates an Extractor with the given configuration.
func New(config Config) *Extractor {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "docsense/1.0"
	}
	return &Extractor{config: config}
}

// Fetch downloads a single document source and extracts its content.
// The context bounds the whole fetch.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) (*Source, error) {
	slog.Debug("fetching document source", "url", rawURL)

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(e.config.UserAgent),
	)
	c.SetRequestTimeout(e.config.Timeout)

	src := &Source{URL: rawURL}
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			fetchErr = ctx.Err()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		src.Raw = r.Body
		src.ContentType = r.Headers.Get("Content-Type")
		src.RetrievedAt = time.Now().UTC()
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, fetchErr)
	}
	if len(src.Raw) == 0 {
		return nil, fmt.Errorf("empty response from %s", rawURL)
	}

	title, content, err := e.Extract(src.Raw, src.ContentType, rawURL)
	if err != nil {
		return nil, err
	}
	src.Title = title
	src.Content = content
	return src, nil
}

// Extract converts a raw source body into markdown text and a title.
// Markdown sources pass through; HTML is converted.
func (e *Extractor) Extract(raw []byte, contentType, sourceURL string) (title, content string, err error) {
	body := string(raw)

	if isMarkdown(sourceURL, contentType, body) {
		return markdownTitle(body), strings.TrimSpace(body), nil
	}

	content, err = htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", "", fmt.Errorf("failed to convert HTML: %w", err)
	}
	return htmlTitle(body), strings.TrimSpace(content), nil
}

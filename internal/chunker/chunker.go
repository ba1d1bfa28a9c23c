package chunker

import (
	"strings"

	"github.com/docsense/docsense/pkg/models"
)

// DefaultSeparators is the separator priority used for document text:
// paragraph break, line break, sentence end, word boundary.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Splitter slices text into overlapping chunks bounded by a maximum size.
// Cuts prefer the earliest-listed separator that fits within the size
// limit, falling back to later separators and finally to a hard cut.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// New creates a Splitter. Non-positive or inconsistent parameters fall
// back to the defaults; overlap must stay below the chunk size.
func New(chunkSize, overlap int, separators []string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: separators,
	}
}

// Split divides text into ordered chunks. Adjacent chunks overlap by
// exactly the configured overlap, except where truncated by the end of
// the text. Empty or whitespace-only input yields no chunks. The result
// depends only on the input and configuration.
func (s *Splitter) Split(text string) []models.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []models.Chunk
	start := 0
	for start < len(text) {
		end := s.cutPoint(text, start)
		chunks = append(chunks, models.Chunk{
			Index:       len(chunks),
			Text:        text[start:end],
			StartOffset: start,
			EndOffset:   end,
		})
		if end == len(text) {
			break
		}
		start = end - s.overlap
	}
	return chunks
}

// cutPoint returns the exclusive end offset for the chunk beginning at
// start. A separator cut must land beyond start+overlap so that the
// next chunk makes forward progress.
func (s *Splitter) cutPoint(text string, start int) int {
	limit := start + s.chunkSize
	if limit >= len(text) {
		return len(text)
	}

	window := text[start:limit]
	floor := s.overlap // cut must exceed this many chars into the window
	for _, sep := range s.separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			cut := i + len(sep)
			if cut > floor {
				return start + cut
			}
		}
	}
	// no separator keeps the chunk small enough, hard character cut
	return limit
}

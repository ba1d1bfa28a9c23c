package models

// Chunk is a bounded, overlapping slice of document text prepared for
// embedding. Chunks are derived per analysis run and never persisted.
type Chunk struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"` // exclusive
}

package events

import "time"

// AnalysisCompleteEvent is emitted after an analysis run is persisted.
type AnalysisCompleteEvent struct {
	DocumentID string
	AnalysisID string
	Source     string        // retrieval or heuristic
	FellBack   bool          // true when the model-backed path failed
	Duration   time.Duration // pipeline wall time, excluding cache hits
}

// IngestCompleteEvent is emitted after a document source is fetched,
// extracted, and indexed.
type IngestCompleteEvent struct {
	DocumentID string
	Title      string
	SourceURL  string
	Bytes      int // size of the raw fetched source
	Archived   bool
	Duration   time.Duration
}

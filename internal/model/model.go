// Package model defines the core memory and knowledge data types.
package model

import "time"

// Memory is a stored key-value fact. At most one row exists per
// (Key, Pinned) pair; upserts overwrite value, score, and timestamp.
type Memory struct {
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Score         float64   `json:"score"`
	Pinned        bool      `json:"pinned"`
	SourceSession string    `json:"source_session,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Session groups conversation turns.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Meta      string    `json:"meta,omitempty"`
}

// Turn is one immutable conversation-log entry with per-stage latencies.
type Turn struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	ASRMillis int       `json:"asr_ms"`
	LLMMillis int       `json:"llm_ms"`
	TTSMillis int       `json:"tts_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is an ingested text source, stored as an ordered chunk sequence.
type Document struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a bounded contiguous slice of a document, the unit of retrieval.
// Immutable once ingested.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Seq        int    `json:"seq"`
	Text       string `json:"text"`
}

// RetrievedChunk is a chunk scored against a query.
type RetrievedChunk struct {
	DocumentID string  `json:"document_id"`
	Source     string  `json:"source"`
	Seq        int     `json:"seq"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// Fact is a candidate (key, value) produced by an extractor before it is
// committed to the store.
type Fact struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

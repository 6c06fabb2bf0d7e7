package domain

import "time"

// DefaultTopK bounds the number of chunks retrieved per query.
const DefaultTopK = 5

// Query is a single question. It is constructed per request and never persisted.
type Query struct {
	// Text is the raw question.
	Text string

	// Language is the detected query language, set by the orchestrator.
	Language Language

	// Target is the language the answer must be written in.
	Target Language

	// Scope restricts retrieval to one language or ScopeAll.
	Scope SearchScope

	// TopK overrides the configured top-k when positive.
	TopK int
}

// Detection is the outcome of language detection on a text span.
type Detection struct {
	// Language is the most probable supported language.
	Language Language

	// Confidence is in [0,1].
	Confidence float64

	// Reliable is false when the span was too short and the default was used.
	Reliable bool
}

// ScoredChunk pairs a retrieved chunk with its similarity score in [0,1].
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Source attributes part of an answer to a document.
type Source struct {
	FileName   string   `json:"file_name"`
	Language   Language `json:"language"`
	Similarity float64  `json:"similarity"`
}

// Answer is the response to a Query.
type Answer struct {
	// Text is the response text.
	Text string `json:"response"`

	// QueryLanguage is the detected language of the question.
	QueryLanguage Language `json:"query_language"`

	// TargetLanguage is the requested answer language.
	TargetLanguage Language `json:"target_language"`

	// AnswerLanguage is the language detected in Text.
	AnswerLanguage Language `json:"answer_language"`

	// Sources attributes each context chunk used, in context order.
	Sources []Source `json:"sources"`

	// Context is the retrieved context the answer was grounded in.
	Context []ScoredChunk `json:"-"`

	// ContextLength is the assembled context size in characters.
	ContextLength int `json:"context_length"`

	// GeneratedAt is when the answer was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

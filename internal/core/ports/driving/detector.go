package driving

import "github.com/custodia-labs/polyglot/internal/core/domain"

// LanguageDetector detects the language of a text span.
type LanguageDetector interface {
	// Detect is deterministic. Spans too short to classify return the
	// configured default with Reliable false.
	Detect(text string) domain.Detection
}

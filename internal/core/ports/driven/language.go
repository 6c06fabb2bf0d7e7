package driven

import "github.com/custodia-labs/polyglot/internal/core/domain"

// LanguageClassifier identifies the language of a text span.
// It must be deterministic: the same text always yields the same result.
type LanguageClassifier interface {
	// Classify returns the most probable supported language and its
	// confidence in [0,1]. ok is false when no supported language fits.
	Classify(text string) (lang domain.Language, confidence float64, ok bool)
}

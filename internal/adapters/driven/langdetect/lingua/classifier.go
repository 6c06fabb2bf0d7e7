// Package lingua provides a LanguageClassifier backed by lingua-go.
package lingua

import (
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.LanguageClassifier = (*Classifier)(nil)

// toDomain maps lingua languages onto the supported set.
// Bokmål and Nynorsk are both reported as Norwegian.
var toDomain = map[lingua.Language]domain.Language{
	lingua.English:    domain.LanguageEnglish,
	lingua.Spanish:    domain.LanguageSpanish,
	lingua.French:     domain.LanguageFrench,
	lingua.German:     domain.LanguageGerman,
	lingua.Italian:    domain.LanguageItalian,
	lingua.Portuguese: domain.LanguagePortuguese,
	lingua.Russian:    domain.LanguageRussian,
	lingua.Japanese:   domain.LanguageJapanese,
	lingua.Korean:     domain.LanguageKorean,
	lingua.Chinese:    domain.LanguageChinese,
	lingua.Arabic:     domain.LanguageArabic,
	lingua.Hindi:      domain.LanguageHindi,
	lingua.Dutch:      domain.LanguageDutch,
	lingua.Swedish:    domain.LanguageSwedish,
	lingua.Bokmal:     domain.LanguageNorwegian,
	lingua.Nynorsk:    domain.LanguageNorwegian,
	lingua.Danish:     domain.LanguageDanish,
	lingua.Finnish:    domain.LanguageFinnish,
	lingua.Polish:     domain.LanguagePolish,
	lingua.Turkish:    domain.LanguageTurkish,
	lingua.Hebrew:     domain.LanguageHebrew,
}

// Classifier restricts lingua to the supported languages.
// The underlying models are loaded lazily on first use and shared.
type Classifier struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewClassifier creates a lingua-backed classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) build() {
	langs := make([]lingua.Language, 0, len(toDomain))
	for l := range toDomain {
		langs = append(langs, l)
	}
	c.detector = lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		Build()
}

// Classify returns the most probable supported language and its confidence.
// lingua's scoring has no randomness, so identical input yields identical output.
func (c *Classifier) Classify(text string) (domain.Language, float64, bool) {
	c.once.Do(c.build)

	detected, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return domain.LanguageUnknown, 0, false
	}
	lang, ok := toDomain[detected]
	if !ok {
		return domain.LanguageUnknown, 0, false
	}
	return lang, c.detector.ComputeLanguageConfidence(text, detected), true
}

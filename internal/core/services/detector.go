package services

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// Ensure DetectorService implements the interface.
var _ driving.LanguageDetector = (*DetectorService)(nil)

// detectionSampleRunes bounds how much text is classified.
const detectionSampleRunes = 1000

// DetectorService wraps a statistical classifier with the short-span
// fallback. It holds no mutable state and is safe for concurrent use.
type DetectorService struct {
	classifier driven.LanguageClassifier
	minLength  int
	fallback   domain.Language
}

// NewDetectorService creates a detector. Invalid settings fall back to
// 20 letters and English.
func NewDetectorService(classifier driven.LanguageClassifier, settings domain.DetectionSettings) *DetectorService {
	s := &DetectorService{
		classifier: classifier,
		minLength:  settings.MinLength,
		fallback:   settings.Default,
	}
	if s.minLength <= 0 {
		s.minLength = domain.DefaultAppSettings().Detection.MinLength
	}
	if !s.fallback.IsValid() {
		s.fallback = domain.DefaultLanguage
	}
	return s
}

// Detect classifies the first 1000 characters of text with punctuation
// and digits removed. Spans with fewer than minLength letters are not
// classified: the fallback is returned with Reliable false.
func (s *DetectorService) Detect(text string) domain.Detection {
	sample, letters := detectionSample(text)
	if letters < s.minLength || s.classifier == nil {
		return s.unreliable()
	}

	lang, confidence, ok := s.classifier.Classify(sample)
	if !ok || !lang.IsValid() {
		return s.unreliable()
	}
	return domain.Detection{Language: lang, Confidence: confidence, Reliable: true}
}

func (s *DetectorService) unreliable() domain.Detection {
	return domain.Detection{Language: s.fallback, Confidence: 0, Reliable: false}
}

// detectionSample keeps letters, combining marks and single spaces from
// the leading part of text and counts the letters kept.
func detectionSample(text string) (string, int) {
	var b strings.Builder
	letters, seen := 0, 0
	space := false
	for _, r := range text {
		if seen == detectionSampleRunes {
			break
		}
		seen++
		switch {
		case unicode.IsLetter(r):
			letters++
			b.WriteRune(r)
			space = false
		case unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r):
			b.WriteRune(r)
		case unicode.IsSpace(r), unicode.IsPunct(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String()), letters
}

package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Success(t *testing.T) {
	assert.True(t, Result{Outcome: OutcomeOK}.Success())
	assert.True(t, Result{Outcome: OutcomeDegraded}.Success())
	assert.False(t, Result{Outcome: OutcomeNoResults}.Success())
	assert.False(t, Result{Outcome: OutcomeFailed}.Success())
}

func TestResult_HasWarning(t *testing.T) {
	r := Result{Warnings: []Warning{{Code: WarningContextTruncated}}}

	assert.True(t, r.HasWarning(WarningContextTruncated))
	assert.False(t, r.HasWarning(WarningTranslationFailed))
}

func TestFailed_ClassifiesError(t *testing.T) {
	r := Failed(fmt.Errorf("answer: %w", ErrEmptyInput))

	assert.Equal(t, OutcomeFailed, r.Outcome)
	assert.Equal(t, KindInput, r.Kind)
	assert.ErrorIs(t, r.Err, ErrEmptyInput)
	assert.Contains(t, r.Message, "empty input")
}

func TestNoResultsMessage(t *testing.T) {
	assert.Contains(t, NoResultsMessage(LanguageSpanish), "No pude encontrar")
	assert.Contains(t, NoResultsMessage(LanguageGerman), "Ich konnte")
	// Languages without a translation fall back to English.
	assert.Equal(t, NoResultsMessage(LanguageEnglish), NoResultsMessage(LanguageFinnish))
	assert.Equal(t, NoResultsMessage(LanguageEnglish), NoResultsMessage(LanguageUnknown))
}

func TestCulturalDirective(t *testing.T) {
	assert.Contains(t, CulturalDirective(LanguageEnglish, LanguageJapanese), "honorifics")
	assert.Contains(t, CulturalDirective(LanguageFrench, LanguageKorean), "honorifics")
	assert.Contains(t, CulturalDirective(LanguageEnglish, LanguageGerman), "formal language")
	assert.Contains(t, CulturalDirective(LanguageEnglish, LanguageSwedish), "in Swedish, maintaining cultural sensitivity.")
	assert.False(t, strings.Contains(CulturalDirective(LanguageSpanish, LanguageSpanish), "formal"))
}

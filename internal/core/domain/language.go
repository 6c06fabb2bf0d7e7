package domain

import (
	"fmt"
	"strings"
)

// Language is an ISO-639-1 language code from the supported set.
// Values outside the set never cross the domain boundary; use ParseLanguage.
type Language string

// Supported languages.
const (
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageItalian    Language = "it"
	LanguagePortuguese Language = "pt"
	LanguageRussian    Language = "ru"
	LanguageJapanese   Language = "ja"
	LanguageKorean     Language = "ko"
	LanguageChinese    Language = "zh"
	LanguageArabic     Language = "ar"
	LanguageHindi      Language = "hi"
	LanguageDutch      Language = "nl"
	LanguageSwedish    Language = "sv"
	LanguageNorwegian  Language = "no"
	LanguageDanish     Language = "da"
	LanguageFinnish    Language = "fi"
	LanguagePolish     Language = "pl"
	LanguageTurkish    Language = "tr"
	LanguageHebrew     Language = "he"

	// LanguageUnknown marks text whose language could not be determined
	// or a code outside the supported set.
	LanguageUnknown Language = "und"
)

// DefaultLanguage is used when detection is unreliable.
const DefaultLanguage = LanguageEnglish

// supportedLanguages keeps display order stable.
var supportedLanguages = []Language{
	LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman,
	LanguageItalian, LanguagePortuguese, LanguageRussian, LanguageJapanese,
	LanguageKorean, LanguageChinese, LanguageArabic, LanguageHindi,
	LanguageDutch, LanguageSwedish, LanguageNorwegian, LanguageDanish,
	LanguageFinnish, LanguagePolish, LanguageTurkish, LanguageHebrew,
}

var languageNames = map[Language]string{
	LanguageEnglish:    "English",
	LanguageSpanish:    "Spanish",
	LanguageFrench:     "French",
	LanguageGerman:     "German",
	LanguageItalian:    "Italian",
	LanguagePortuguese: "Portuguese",
	LanguageRussian:    "Russian",
	LanguageJapanese:   "Japanese",
	LanguageKorean:     "Korean",
	LanguageChinese:    "Chinese",
	LanguageArabic:     "Arabic",
	LanguageHindi:      "Hindi",
	LanguageDutch:      "Dutch",
	LanguageSwedish:    "Swedish",
	LanguageNorwegian:  "Norwegian",
	LanguageDanish:     "Danish",
	LanguageFinnish:    "Finnish",
	LanguagePolish:     "Polish",
	LanguageTurkish:    "Turkish",
	LanguageHebrew:     "Hebrew",
}

// SupportedLanguages returns the supported languages in display order.
// The returned slice is a copy.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ParseLanguage validates a user-supplied language code.
// Matching is case-insensitive and tolerates region suffixes ("pt-BR").
func ParseLanguage(code string) (Language, error) {
	c := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(c, "-_"); i > 0 {
		c = c[:i]
	}
	// Bokmål and Nynorsk are reported as Norwegian.
	if c == "nb" || c == "nn" {
		c = string(LanguageNorwegian)
	}
	lang := Language(c)
	if !lang.IsValid() {
		return LanguageUnknown, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return lang, nil
}

// IsValid returns true if the language is in the supported set.
func (l Language) IsValid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name returns the English display name of the language.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return unknownDescription
}

// String returns the language code.
func (l Language) String() string {
	return string(l)
}

// ScopeAll searches every language.
const ScopeAll SearchScope = "all"

// SearchScope restricts retrieval to one language, or to none with ScopeAll.
type SearchScope string

// ParseScope validates a search scope: "all" (or empty) or a supported language code.
func ParseScope(s string) (SearchScope, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == string(ScopeAll) {
		return ScopeAll, nil
	}
	lang, err := ParseLanguage(v)
	if err != nil {
		return "", err
	}
	return SearchScope(lang), nil
}

// Filter returns the language filter for the scope, or false for ScopeAll.
func (s SearchScope) Filter() (Language, bool) {
	if s == "" || s == ScopeAll {
		return "", false
	}
	return Language(s), true
}

// String returns the scope value.
func (s SearchScope) String() string {
	if s == "" {
		return string(ScopeAll)
	}
	return string(s)
}

package domain

import "time"

// TranslationKey identifies a cached translation.
// Identical keys always map to the same value for the lifetime of a cache.
type TranslationKey struct {
	// TextHash is a 64-bit hash of the source text.
	TextHash uint64

	Source   Language
	Target   Language
	Cultural bool
}

// TranslationEntry is a cached translation.
type TranslationEntry struct {
	Key       TranslationKey
	Text      string
	CreatedAt time.Time
}

// TranslationRequest is sent to the external translation capability.
type TranslationRequest struct {
	Text   string
	Source Language
	Target Language

	// Cultural asks for idiom, honorific and register adaptation.
	Cultural bool
}
